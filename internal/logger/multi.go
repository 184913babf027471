package logger

import (
	"time"

	"github.com/harrison/licensesearch/internal/models"
)

// Sink is the set of methods every logger in this package implements.
type Sink interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogSearchSummary(outcome *models.SearchOutcome, duration time.Duration)
}

// MultiLogger forwards every message to each of its sinks in order.
type MultiLogger struct {
	sinks []Sink
}

// NewMultiLogger creates a MultiLogger. Nil sinks are dropped.
func NewMultiLogger(sinks ...Sink) *MultiLogger {
	ml := &MultiLogger{}
	for _, s := range sinks {
		if s != nil {
			ml.sinks = append(ml.sinks, s)
		}
	}
	return ml
}

func (ml *MultiLogger) LogTrace(message string) {
	for _, s := range ml.sinks {
		s.LogTrace(message)
	}
}

func (ml *MultiLogger) LogDebug(message string) {
	for _, s := range ml.sinks {
		s.LogDebug(message)
	}
}

func (ml *MultiLogger) LogInfo(message string) {
	for _, s := range ml.sinks {
		s.LogInfo(message)
	}
}

func (ml *MultiLogger) LogWarn(message string) {
	for _, s := range ml.sinks {
		s.LogWarn(message)
	}
}

func (ml *MultiLogger) LogError(message string) {
	for _, s := range ml.sinks {
		s.LogError(message)
	}
}

func (ml *MultiLogger) LogSearchSummary(outcome *models.SearchOutcome, duration time.Duration) {
	for _, s := range ml.sinks {
		s.LogSearchSummary(outcome, duration)
	}
}

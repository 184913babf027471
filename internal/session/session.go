// Package session holds the state of an interactive search shell: the outcome
// of the last successful search, which later exports read from.
package session

import (
	"errors"
	"sync"

	"github.com/harrison/licensesearch/internal/export"
	"github.com/harrison/licensesearch/internal/models"
)

// ErrSuperseded is returned by a search whose result was discarded because a
// newer search started while it was running.
var ErrSuperseded = errors.New("search superseded by a newer search")

// Searcher runs one search.
type Searcher interface {
	Search(directory, phrase string) (*models.SearchOutcome, error)
}

// Recorder persists a finished search. searchErr is nil on success.
type Recorder interface {
	Record(directory, phrase string, outcome *models.SearchOutcome, searchErr error) error
}

// Options configures a Session.
type Options struct {
	Recorder      Recorder    // Optional search history
	OnRecordError func(error) // Called when the recorder fails; the search result stands
	LockDir       string      // Where export lock files live; empty selects a temp directory
}

// Result is delivered by SearchAsync.
type Result struct {
	Outcome *models.SearchOutcome
	Err     error
}

// Session owns the current outcome. A successful search replaces it, a failed
// search clears it, and exports read it without modification. Searches run one
// at a time; only the most recently started search may set the outcome.
type Session struct {
	searcher Searcher
	opts     Options

	searchMu sync.Mutex // at most one search in flight

	mu         sync.Mutex
	current    *models.SearchOutcome
	generation uint64
}

// New creates a Session that searches with searcher.
func New(searcher Searcher, opts Options) *Session {
	return &Session{searcher: searcher, opts: opts}
}

// Search runs a search and updates the held outcome from its result.
func (s *Session) Search(directory, phrase string) (*models.SearchOutcome, error) {
	gen := s.begin()

	s.searchMu.Lock()
	outcome, err := s.searcher.Search(directory, phrase)
	s.searchMu.Unlock()

	s.record(directory, phrase, outcome, err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.current = nil
		return nil, err
	}
	s.current = outcome
	return outcome, nil
}

// SearchAsync runs Search in the background. The channel receives exactly one
// Result and is then closed.
func (s *Session) SearchAsync(directory, phrase string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		outcome, err := s.Search(directory, phrase)
		ch <- Result{Outcome: outcome, Err: err}
	}()
	return ch
}

// Current returns the outcome of the last successful search, or nil.
func (s *Session) Current() *models.SearchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear drops the held outcome.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Export writes the held outcome to path and returns the path written and the
// number of records exported. A failed export keeps the held outcome.
func (s *Session) Export(path string, format export.Format) (string, int, error) {
	outcome := s.Current()
	if outcome.Empty() {
		return "", 0, export.ErrNoResults
	}

	written, err := export.ToFile(outcome, path, format, export.WithLockDir(s.opts.LockDir))
	if err != nil {
		return "", 0, err
	}
	return written, outcome.Len(), nil
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *Session) record(directory, phrase string, outcome *models.SearchOutcome, searchErr error) {
	if s.opts.Recorder == nil {
		return
	}
	if err := s.opts.Recorder.Record(directory, phrase, outcome, searchErr); err != nil && s.opts.OnRecordError != nil {
		s.opts.OnRecordError(err)
	}
}

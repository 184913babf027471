package models

import (
	"errors"
	"fmt"
)

// ErrorReason classifies why a search produced no outcome.
type ErrorReason string

// Search failure reasons
const (
	ReasonInvalidDirectory  ErrorReason = "InvalidDirectory"  // Path missing or not a directory
	ReasonEmptyPhrase       ErrorReason = "EmptyPhrase"       // Phrase blank after trimming
	ReasonEnumerationFailed ErrorReason = "EnumerationFailed" // Directory listing itself failed
	ReasonNoMatchesFound    ErrorReason = "NoMatchesFound"    // No eligible file contained the phrase
)

// Sentinels for errors.Is. Any *SearchError with the same Reason matches.
var (
	ErrInvalidDirectory  = &SearchError{Reason: ReasonInvalidDirectory}
	ErrEmptyPhrase       = &SearchError{Reason: ReasonEmptyPhrase}
	ErrEnumerationFailed = &SearchError{Reason: ReasonEnumerationFailed}
	ErrNoMatchesFound    = &SearchError{Reason: ReasonNoMatchesFound}
)

// SearchError is the single structured failure a search can return.
type SearchError struct {
	Reason ErrorReason
	Path   string // Directory that was searched
	Phrase string // Phrase as supplied by the caller
	Err    error  // Underlying cause, set for EnumerationFailed
}

// Error returns the user-facing message for the failure.
func (e *SearchError) Error() string {
	switch e.Reason {
	case ReasonInvalidDirectory:
		return "Error: Please select a valid folder containing your license files."
	case ReasonEmptyPhrase:
		return "Error: The search phrase cannot be empty."
	case ReasonEnumerationFailed:
		if e.Err != nil {
			return fmt.Sprintf("An unexpected error occurred: %v", e.Err)
		}
		return "An unexpected error occurred while listing the folder."
	case ReasonNoMatchesFound:
		return fmt.Sprintf("No files containing the phrase '%s' were found.", e.Phrase)
	default:
		return fmt.Sprintf("search failed: %s", e.Reason)
	}
}

// Unwrap exposes the underlying cause.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is matches another *SearchError with the same reason.
func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// Informational reports whether the failure is an expected, non-crash result.
func (e *SearchError) Informational() bool {
	return e.Reason == ReasonNoMatchesFound
}

// ReasonOf extracts the search failure reason from err, if any.
func ReasonOf(err error) (ErrorReason, bool) {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return "", false
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// ComplianceNotChecked is the fixed compliance tag attached to every match.
// No registry lookup (SPDX, OSI or otherwise) is ever performed.
const ComplianceNotChecked = "N/A (Local Search Only)"

// MatchRecord is the result of a phrase hit in one license file.
type MatchRecord struct {
	Title             string `json:"title"`              // Trimmed first line of the file, or the file name when it is blank
	ComplianceTag     string `json:"compliance_tag"`     // Always ComplianceNotChecked
	MatchingParagraph string `json:"matching_paragraph"` // Trimmed paragraph holding the first occurrence
	ParagraphBefore   string `json:"paragraph_before"`   // Trimmed preceding paragraph, "" when none
	ContextDisplay    string `json:"context_display"`    // Before/match/after joined for on-screen use
	SourceFile        string `json:"source_file"`        // Base name of the file the record came from
}

// Validate checks the invariants every record produced by a search must hold.
func (m *MatchRecord) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("match record title is required")
	}
	if m.MatchingParagraph == "" {
		return fmt.Errorf("match record %q has an empty matching paragraph", m.Title)
	}
	return nil
}

// SkippedFile names an eligible file that could not be searched and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// SearchOutcome is the successful result of one search invocation.
// It is produced fresh by every search and owned by whoever issued it.
type SearchOutcome struct {
	ID         string        `json:"id"`
	Directory  string        `json:"directory"`
	Phrase     string        `json:"phrase"`
	Records    []MatchRecord `json:"records"`
	Skipped    []SkippedFile `json:"skipped,omitempty"`
	SearchedAt time.Time     `json:"searched_at"`
}

// Len returns the number of match records. Safe on a nil outcome.
func (o *SearchOutcome) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Records)
}

// Empty reports whether there is nothing to render or export.
func (o *SearchOutcome) Empty() bool {
	return o.Len() == 0
}

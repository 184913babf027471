package models

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMatchRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		record  MatchRecord
		wantErr bool
	}{
		{
			name: "valid record",
			record: MatchRecord{
				Title:             "MIT License",
				ComplianceTag:     ComplianceNotChecked,
				MatchingParagraph: "Permission is hereby granted",
			},
			wantErr: false,
		},
		{
			name: "valid record with empty paragraph before",
			record: MatchRecord{
				Title:             "MIT License",
				MatchingParagraph: "MIT License",
				ParagraphBefore:   "",
			},
			wantErr: false,
		},
		{
			name:    "missing title",
			record:  MatchRecord{MatchingParagraph: "text"},
			wantErr: true,
		},
		{
			name:    "blank title",
			record:  MatchRecord{Title: "   ", MatchingParagraph: "text"},
			wantErr: true,
		},
		{
			name:    "missing matching paragraph",
			record:  MatchRecord{Title: "BSD"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("MatchRecord.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchOutcomeNilSafe(t *testing.T) {
	var outcome *SearchOutcome
	if outcome.Len() != 0 {
		t.Errorf("expected nil outcome length 0, got %d", outcome.Len())
	}
	if !outcome.Empty() {
		t.Error("expected nil outcome to be empty")
	}

	outcome = &SearchOutcome{Records: []MatchRecord{{Title: "A"}, {Title: "B"}}}
	if outcome.Empty() {
		t.Error("expected outcome with records to be non-empty")
	}
	if outcome.Len() != 2 {
		t.Errorf("expected 2 records, got %d", outcome.Len())
	}
}

func TestSearchErrorMessages(t *testing.T) {
	tests := []struct {
		err  *SearchError
		want string
	}{
		{&SearchError{Reason: ReasonInvalidDirectory, Path: "/nope"}, "Error: Please select a valid folder containing your license files."},
		{&SearchError{Reason: ReasonEmptyPhrase}, "Error: The search phrase cannot be empty."},
		{&SearchError{Reason: ReasonNoMatchesFound, Phrase: "Apache"}, "No files containing the phrase 'Apache' were found."},
		{&SearchError{Reason: ReasonEnumerationFailed, Err: os.ErrPermission}, "An unexpected error occurred: permission denied"},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Reason), func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &SearchError{Reason: ReasonEnumerationFailed, Err: os.ErrPermission})

	if !errors.Is(err, ErrEnumerationFailed) {
		t.Error("expected errors.Is to match EnumerationFailed sentinel")
	}
	if errors.Is(err, ErrInvalidDirectory) {
		t.Error("did not expect errors.Is to match InvalidDirectory sentinel")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected errors.Is to reach underlying cause")
	}

	reason, ok := ReasonOf(err)
	if !ok || reason != ReasonEnumerationFailed {
		t.Errorf("ReasonOf() = %q, %v", reason, ok)
	}
	if _, ok := ReasonOf(errors.New("plain")); ok {
		t.Error("expected ReasonOf to reject plain errors")
	}
}

func TestSearchErrorInformational(t *testing.T) {
	if !(&SearchError{Reason: ReasonNoMatchesFound}).Informational() {
		t.Error("NoMatchesFound should be informational")
	}
	if (&SearchError{Reason: ReasonEmptyPhrase}).Informational() {
		t.Error("EmptyPhrase should not be informational")
	}
}

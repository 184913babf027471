package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harrison/licensesearch/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in the palette's warning color
func (w Warning) Display(out io.Writer, palette *Palette) {
	if palette == nil {
		palette = NewPalette(false)
	}

	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	// Add message with 4-space indent if present
	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	// Add files with proper singular/plural and indentation
	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, palette.warning.Sprint(b.String()))
}

// WarnSkippedFiles creates a warning listing files a search could not read.
// It returns false when nothing was skipped.
func WarnSkippedFiles(skipped []models.SkippedFile) (Warning, bool) {
	if len(skipped) == 0 {
		return Warning{}, false
	}

	files := make([]string, 0, len(skipped))
	for _, s := range skipped {
		files = append(files, fmt.Sprintf("%s: %s", filepath.Base(s.Path), s.Reason))
	}

	return Warning{
		Title:      fmt.Sprintf("Skipped %d unreadable file(s)", len(skipped)),
		Message:    "Results from the remaining files are complete.",
		Files:      files,
		Suggestion: "Check that these files are readable UTF-8 text.",
	}, true
}

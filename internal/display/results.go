package display

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"github.com/harrison/licensesearch/internal/models"
)

// Status lines shown around searches and exports.
const (
	StatusReady        = "Ready. Please select a folder and enter a search phrase."
	StatusSearching    = "Searching, this may take a moment..."
	StatusError        = "An error occurred. Please check the results above."
	StatusExportFailed = "Export failed."
	StatusNoResults    = "No search results. Run a search first."
)

// SearchCompleteStatus is the status line after a successful search.
func SearchCompleteStatus(matches int) string {
	return fmt.Sprintf("Search complete. Found matches in %d file(s).", matches)
}

// ExportCompleteStatus is the status line after a successful export.
func ExportCompleteStatus(path string) string {
	return fmt.Sprintf("Export successful. Results saved to %s.", filepath.Base(path))
}

// RecordHeader is the line introducing one record on screen.
func RecordHeader(record models.MatchRecord) string {
	return fmt.Sprintf("--- %s [Compliance: %s] ---", record.Title, record.ComplianceTag)
}

// ResultRenderer writes search results and errors for a terminal user.
type ResultRenderer struct {
	w       io.Writer
	palette *Palette
}

// NewResultRenderer creates a renderer writing to w.
func NewResultRenderer(w io.Writer, palette *Palette) *ResultRenderer {
	if palette == nil {
		palette = NewPalette(false)
	}
	return &ResultRenderer{w: w, palette: palette}
}

// RenderOutcome prints every record in result order, the search phrase
// emphasised wherever it occurs, followed by the completion status.
func (r *ResultRenderer) RenderOutcome(outcome *models.SearchOutcome) {
	if outcome.Empty() {
		return
	}

	for _, record := range outcome.Records {
		r.RenderRecord(record, outcome.Phrase)
	}

	if w, ok := WarnSkippedFiles(outcome.Skipped); ok {
		w.Display(r.w, r.palette)
	}

	r.RenderStatus(SearchCompleteStatus(outcome.Len()))
}

// RenderRecord prints one record: header, then its context block.
func (r *ResultRenderer) RenderRecord(record models.MatchRecord, phrase string) {
	fmt.Fprintln(r.w, r.palette.header.Sprint(RecordHeader(record)))
	fmt.Fprintln(r.w, Highlight(record.ContextDisplay, phrase, r.palette.highlight.Sprint))
	fmt.Fprintln(r.w)
}

// RenderError prints a failed search or export. NoMatchesFound is informational
// and shown in the warning color; everything else is red.
func (r *ResultRenderer) RenderError(err error) {
	if err == nil {
		return
	}

	var searchErr *models.SearchError
	if errors.As(err, &searchErr) && searchErr.Informational() {
		fmt.Fprintln(r.w, r.palette.warning.Sprint(err.Error()))
		return
	}

	fmt.Fprintln(r.w, r.palette.failure.Sprint(err.Error()))
	r.RenderStatus(StatusError)
}

// RenderExportError prints a failed export. The held results are unaffected,
// so the generic search error status is not shown.
func (r *ResultRenderer) RenderExportError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(r.w, r.palette.failure.Sprint(err.Error()))
	r.RenderStatus(StatusExportFailed)
}

// RenderStatus prints a dimmed status line.
func (r *ResultRenderer) RenderStatus(status string) {
	fmt.Fprintln(r.w, r.palette.faint.Sprint(status))
}

// RenderWarning prints a notice in the warning color.
func (r *ResultRenderer) RenderWarning(message string) {
	fmt.Fprintln(r.w, r.palette.warning.Sprint(message))
}

// RenderSuccess prints a confirmation in green.
func (r *ResultRenderer) RenderSuccess(message string) {
	fmt.Fprintln(r.w, r.palette.success.Sprint(message))
}

// Highlight wraps every case-insensitive occurrence of phrase in text with mark.
func Highlight(text, phrase string, mark func(a ...interface{}) string) string {
	if phrase == "" || text == "" {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(phrase))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return mark(match)
	})
}

// Package export serializes a search outcome to a file. CSV is the primary
// format; JSON, Markdown and HTML reports are also available. Exporters only
// read the records they are given and never search again.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/licensesearch/internal/models"
)

// ErrNoResults is returned when there is no successful search to export.
var ErrNoResults = errors.New("No search results to export. Please run a successful search first.")

// ErrUnknownFormat is returned for an unsupported export format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the accepted format names in display order.
func Formats() []string {
	return []string{string(FormatCSV), string(FormatJSON), string(FormatMarkdown), string(FormatHTML)}
}

// ParseFormat resolves a user-supplied format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w '%s': must be one of %s", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
}

// Exporter writes an outcome in one format.
type Exporter interface {
	Export(w io.Writer, outcome *models.SearchOutcome) error
	// Extension is the file suffix, including the dot, for this format.
	Extension() string
}

// New returns the exporter for format.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatJSON:
		return &JSONExporter{Pretty: true}, nil
	case FormatMarkdown:
		return &MarkdownExporter{IncludeTimestamp: true}, nil
	case FormatHTML:
		return &HTMLExporter{}, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownFormat, format)
}

// CollapseNewlines replaces each line break with a single space and trims the
// result. CRLF counts as one line break.
func CollapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func checkOutcome(outcome *models.SearchOutcome) error {
	if outcome.Empty() {
		return ErrNoResults
	}
	return nil
}

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/licensesearch/internal/models"
)

// HTMLExporter renders the Markdown report to a standalone HTML page.
// Raw HTML in license text is escaped, never passed through.
type HTMLExporter struct {
	Markdown MarkdownExporter
}

// Extension returns ".html".
func (he *HTMLExporter) Extension() string { return ".html" }

// Export writes outcome as HTML.
func (he *HTMLExporter) Export(w io.Writer, outcome *models.SearchOutcome) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(he.Markdown.render(outcome)), &body); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}

	title := html.EscapeString(fmt.Sprintf("License search: %s", outcome.Phrase))
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

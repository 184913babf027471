package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/licensesearch/internal/models"
)

// MarkdownExporter writes a human-readable report, one section per record.
type MarkdownExporter struct {
	IncludeTimestamp bool             // Include export timestamp in header
	Now              func() time.Time // Clock for the timestamp, time.Now when nil
}

// Extension returns ".md".
func (me *MarkdownExporter) Extension() string { return ".md" }

// Export writes outcome as Markdown.
func (me *MarkdownExporter) Export(w io.Writer, outcome *models.SearchOutcome) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}
	_, err := io.WriteString(w, me.render(outcome))
	return err
}

func (me *MarkdownExporter) render(outcome *models.SearchOutcome) string {
	var sb strings.Builder

	sb.WriteString("# License Search Report\n\n")
	if me.IncludeTimestamp {
		now := time.Now
		if me.Now != nil {
			now = me.Now
		}
		sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", now().Format("2006-01-02 15:04:05")))
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Directory**: `%s`\n", outcome.Directory))
	sb.WriteString(fmt.Sprintf("- **Phrase**: %s\n", escapeMarkdown(outcome.Phrase)))
	sb.WriteString(fmt.Sprintf("- **Matches**: %d\n", outcome.Len()))
	if len(outcome.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("- **Skipped files**: %d\n", len(outcome.Skipped)))
	}
	sb.WriteString("\n")

	sb.WriteString("| Title | Compliance | Source |\n")
	sb.WriteString("|-------|------------|--------|\n")
	for _, record := range outcome.Records {
		sb.WriteString(fmt.Sprintf("| %s | %s | `%s` |\n",
			escapeTableCell(record.Title),
			escapeTableCell(record.ComplianceTag),
			record.SourceFile))
	}
	sb.WriteString("\n")

	for _, record := range outcome.Records {
		sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(record.Title)))
		sb.WriteString(fmt.Sprintf("**Compliance**: %s\n\n", escapeMarkdown(record.ComplianceTag)))
		if record.ParagraphBefore != "" {
			sb.WriteString("### Paragraph before\n\n")
			sb.WriteString(blockquote(record.ParagraphBefore))
		}
		sb.WriteString("### Matching paragraph\n\n")
		sb.WriteString(blockquote(record.MatchingParagraph))
	}

	return sb.String()
}

// blockquote quotes every line of text, keeping blank lines inside the quote.
func blockquote(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString(">\n")
			continue
		}
		sb.WriteString("> ")
		sb.WriteString(escapeMarkdown(line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"[", `\[`,
	"]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(escapeMarkdown(CollapseNewlines(s)), "|", `\|`)
}

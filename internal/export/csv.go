package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/harrison/licensesearch/internal/models"
)

// CSVHeader is the fixed column order of CSV exports.
var CSVHeader = []string{"title", "compliance_tag", "matching_paragraph", "paragraph_before"}

// CSVExporter writes one row per record under a header row.
// Paragraph fields have their line breaks collapsed to spaces.
type CSVExporter struct{}

// Extension returns ".csv".
func (ce *CSVExporter) Extension() string { return ".csv" }

// Export writes outcome as CSV.
func (ce *CSVExporter) Export(w io.Writer, outcome *models.SearchOutcome) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, record := range outcome.Records {
		row := []string{
			record.Title,
			record.ComplianceTag,
			CollapseNewlines(record.MatchingParagraph),
			CollapseNewlines(record.ParagraphBefore),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("write CSV row for %s: %w", record.Title, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

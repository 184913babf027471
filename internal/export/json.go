package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harrison/licensesearch/internal/models"
)

// JSONExporter writes the outcome and its records as one JSON document.
type JSONExporter struct {
	Pretty bool // Enable pretty printing with indentation
}

type jsonRecord struct {
	Title             string `json:"title"`
	ComplianceTag     string `json:"compliance_tag"`
	MatchingParagraph string `json:"matching_paragraph"`
	ParagraphBefore   string `json:"paragraph_before"`
	SourceFile        string `json:"source_file,omitempty"`
}

type jsonDocument struct {
	ID         string       `json:"id,omitempty"`
	Directory  string       `json:"directory"`
	Phrase     string       `json:"phrase"`
	SearchedAt time.Time    `json:"searched_at"`
	Count      int          `json:"count"`
	Records    []jsonRecord `json:"records"`
}

// Extension returns ".json".
func (je *JSONExporter) Extension() string { return ".json" }

// Export writes outcome as JSON. Paragraph text is kept verbatim.
func (je *JSONExporter) Export(w io.Writer, outcome *models.SearchOutcome) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}

	doc := jsonDocument{
		ID:         outcome.ID,
		Directory:  outcome.Directory,
		Phrase:     outcome.Phrase,
		SearchedAt: outcome.SearchedAt,
		Count:      outcome.Len(),
		Records:    make([]jsonRecord, 0, outcome.Len()),
	}
	for _, record := range outcome.Records {
		doc.Records = append(doc.Records, jsonRecord{
			Title:             record.Title,
			ComplianceTag:     record.ComplianceTag,
			MatchingParagraph: record.MatchingParagraph,
			ParagraphBefore:   record.ParagraphBefore,
			SourceFile:        record.SourceFile,
		})
	}

	encoder := json.NewEncoder(w)
	if je.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

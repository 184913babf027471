package search

import (
	"strings"

	"github.com/harrison/licensesearch/internal/models"
)

// ParagraphDelimiter separates paragraphs. Only a literal blank line counts;
// a "blank" line holding spaces or a CRLF file will not segment.
const ParagraphDelimiter = "\n\n"

// ContextSeparator sits between the segments of MatchRecord.ContextDisplay so
// paragraph boundaries stay distinguishable from in-paragraph line breaks.
const ContextSeparator = "\n\n[...] \n\n"

// ExtractTitle returns the trimmed first line of content, or fileName when
// that line is blank.
func ExtractTitle(content, fileName string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	if title := strings.TrimSpace(firstLine); title != "" {
		return title
	}
	return fileName
}

// SplitParagraphs splits content on ParagraphDelimiter, keeping raw text and order.
func SplitParagraphs(content string) []string {
	return strings.Split(content, ParagraphDelimiter)
}

// ContainsFold reports whether phrase occurs in text, comparing lower-cased forms.
func ContainsFold(text, phrase string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}

// LocateParagraph returns the index of the first paragraph containing phrase
// (case-insensitive), or -1.
func LocateParagraph(paragraphs []string, phrase string) int {
	needle := strings.ToLower(phrase)
	for i, p := range paragraphs {
		if strings.Contains(strings.ToLower(p), needle) {
			return i
		}
	}
	return -1
}

// Context is the paragraph neighbourhood around a match.
type Context struct {
	Before   string // trimmed preceding paragraph, "" when the match is first
	Match    string // trimmed matching paragraph
	After    string // trimmed following paragraph, "" when the match is last
	HasPrior bool
	HasNext  bool
}

// BuildContext collects the neighbourhood of paragraphs[index].
func BuildContext(paragraphs []string, index int) Context {
	ctx := Context{Match: strings.TrimSpace(paragraphs[index])}
	if index > 0 {
		ctx.Before = strings.TrimSpace(paragraphs[index-1])
		ctx.HasPrior = true
	}
	if index < len(paragraphs)-1 {
		ctx.After = strings.TrimSpace(paragraphs[index+1])
		ctx.HasNext = true
	}
	return ctx
}

// Display joins the existing segments with ContextSeparator.
func (c Context) Display() string {
	parts := make([]string, 0, 3)
	if c.HasPrior {
		parts = append(parts, c.Before)
	}
	parts = append(parts, c.Match)
	if c.HasNext {
		parts = append(parts, c.After)
	}
	return strings.Join(parts, ContextSeparator)
}

// ExtractMatch builds the MatchRecord for one file's content. It returns false
// when phrase does not occur in content, or occurs only across a paragraph
// boundary so that no single paragraph holds it.
func ExtractMatch(content, phrase, fileName string) (models.MatchRecord, bool) {
	if !ContainsFold(content, phrase) {
		return models.MatchRecord{}, false
	}

	paragraphs := SplitParagraphs(content)
	index := LocateParagraph(paragraphs, phrase)
	if index < 0 {
		return models.MatchRecord{}, false
	}

	ctx := BuildContext(paragraphs, index)
	return models.MatchRecord{
		Title:             ExtractTitle(content, fileName),
		ComplianceTag:     models.ComplianceNotChecked,
		MatchingParagraph: ctx.Match,
		ParagraphBefore:   ctx.Before,
		ContextDisplay:    ctx.Display(),
		SourceFile:        fileName,
	}, true
}

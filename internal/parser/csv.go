package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

// CSVParser handles CSV files. The table becomes one paragraph on a single
// page: the header row is the first line and every data row follows as
// "header: value" pairs.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailure, filename, err)
	}

	doc := &doctree.Document{Name: filename}
	page := &doctree.Page{Number: 1}
	doc.Pages = append(doc.Pages, page)
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]
	lines := []string{strings.Join(headers, ", ")}
	for _, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			if j > 0 {
				text.WriteString(", ")
			}
			if j < len(headers) && headers[j] != "" {
				text.WriteString(headers[j] + ": ")
			}
			text.WriteString(cell)
		}
		if line := strings.TrimSpace(text.String()); line != "" {
			lines = append(lines, line)
		}
	}
	page.Text = strings.Join(lines, "\n")
	return doc, nil
}

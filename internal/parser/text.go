package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

// TextParser handles plain text files. A form feed starts a new page and
// whitespace-only lines collapse into a single blank line between paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &doctree.Document{Name: filename}
	var paragraphs []string
	var current strings.Builder

	flushParagraph := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
		}
	}
	flushPage := func() {
		flushParagraph()
		doc.Pages = append(doc.Pages, &doctree.Page{
			Number: len(doc.Pages) + 1,
			Text:   strings.Join(paragraphs, "\n\n"),
		})
		paragraphs = nil
	}

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, line := range parts {
			if i > 0 {
				flushPage()
			}
			if strings.TrimSpace(line) == "" {
				flushParagraph()
				continue
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flushParagraph()
	if len(paragraphs) > 0 || len(doc.Pages) == 0 {
		flushPage()
	}
	return doc, nil
}

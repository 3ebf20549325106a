package parser

import (
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

// Synthetic point sizes for formats whose structure is explicit (markdown,
// html, docx). They let the font-driven outline path treat these documents
// the same way it treats PDFs.
const bodyFontSize = 11.0

var headingFontSizes = map[int]float64{1: 24, 2: 18, 3: 15, 4: 13, 5: 12, 6: 12}

// pageBuilder lays out blocks top to bottom on a single virtual page. A
// heading opens a paragraph that the next body block joins, so the heading
// becomes the paragraph's first line.
type pageBuilder struct {
	page        *doctree.Page
	y           float64
	paragraphs  []string
	openHeading bool
}

func newPageBuilder(number int) *pageBuilder {
	return &pageBuilder{page: &doctree.Page{Number: number}}
}

func (b *pageBuilder) addHeading(text string, level int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	size, ok := headingFontSizes[level]
	if !ok {
		size = bodyFontSize
	}
	b.addRun(text, size, doctree.FlagBold)
	b.paragraphs = append(b.paragraphs, text)
	b.openHeading = true
}

func (b *pageBuilder) addParagraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.addRun(line, bodyFontSize, 0)
		}
	}
	if b.openHeading {
		b.paragraphs[len(b.paragraphs)-1] += "\n" + text
		b.openHeading = false
		return
	}
	b.paragraphs = append(b.paragraphs, text)
}

func (b *pageBuilder) addRun(text string, size float64, flags int) {
	b.page.Runs = append(b.page.Runs, doctree.TextRun{
		Text:      text,
		FontSize:  size,
		FontFlags: flags,
		BBox:      doctree.BBox{X0: 0, Y0: b.y, X1: float64(len(text)) * size * 0.5, Y1: b.y + size},
		Page:      b.page.Number,
	})
	// One blank line of spacing keeps separate blocks from looking like
	// wrapped lines of the same block.
	b.y += size * 2
}

func (b *pageBuilder) build() *doctree.Page {
	b.page.Text = strings.Join(b.paragraphs, "\n\n")
	return b.page
}

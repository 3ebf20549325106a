package doctree

import "strings"

// Font flag bits carried on a TextRun. The layout matches the common PDF
// extraction convention (superscript=1, italic=2, serif=4, mono=8, bold=16).
const (
	FlagSuperscript = 1 << iota
	FlagItalic
	FlagSerif
	FlagMono
	FlagBold
)

// Document is a loaded source document, split into pages.
type Document struct {
	Name      string  `json:"name"`       // Basename of the source file
	MetaTitle string  `json:"meta_title"` // Title from document metadata, may be empty
	Pages     []*Page `json:"pages"`
}

// Page is one page of text. Runs are optional: plain-text sources have none.
type Page struct {
	Number int       `json:"number"` // 1-based
	Text   string    `json:"text"`   // Lines separated by \n, paragraphs by a blank line
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Runs   []TextRun `json:"runs,omitempty"`
}

// TextRun is a contiguous piece of text sharing one font and size on one line.
type TextRun struct {
	Text      string  `json:"text"`
	FontSize  float64 `json:"font_size"`
	FontFlags int     `json:"font_flags"`
	BBox      BBox    `json:"bbox"`
	Page      int     `json:"page"`
}

// BBox is a bounding box in top-down page coordinates (y grows downward).
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Bold reports whether the run carries the bold flag.
func (r TextRun) Bold() bool { return r.FontFlags&FlagBold != 0 }

// HasRuns reports whether any page carries font metadata.
func (d *Document) HasRuns() bool {
	for _, p := range d.Pages {
		if len(p.Runs) > 0 {
			return true
		}
	}
	return false
}

// FlagsForFont derives flag bits from a font name such as "Helvetica-BoldOblique".
func FlagsForFont(name string) int {
	lower := strings.ToLower(name)
	flags := 0
	for _, s := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(lower, s) {
			flags |= FlagBold
			break
		}
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		flags |= FlagItalic
	}
	if strings.Contains(lower, "courier") || strings.Contains(lower, "mono") {
		flags |= FlagMono
	}
	return flags
}

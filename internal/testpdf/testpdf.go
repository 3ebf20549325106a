// Package testpdf renders small PDFs with known fonts and spacing for tests.
package testpdf

import (
	"bytes"
	"os"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// Line is one line of text. Gap adds extra vertical space above it.
type Line struct {
	Text string
	Size float64
	Bold bool
	Gap  float64
}

// Page is a list of lines laid out top to bottom.
type Page []Line

// Body returns an unstyled 11pt line.
func Body(text string) Line { return Line{Text: text, Size: 11} }

// Heading returns a bold line preceded by a paragraph gap.
func Heading(text string, size float64) Line {
	return Line{Text: text, Size: size, Bold: true, Gap: size}
}

// Para returns body lines with a paragraph gap before the first.
func Para(lines ...string) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Body(l)
	}
	if len(out) > 0 {
		out[0].Gap = 11
	}
	return out
}

// Render builds a PDF in points on A4 pages. title sets the Info dictionary.
func Render(title string, pages ...Page) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	for _, page := range pages {
		pdf.AddPage()
		y := 56.0
		for _, l := range page {
			style := ""
			if l.Bold {
				style = "B"
			}
			size := l.Size
			if size <= 0 {
				size = 11
			}
			y += l.Gap
			pdf.SetFont("Helvetica", style, size)
			pdf.SetXY(56, y)
			pdf.Cell(0, size, l.Text)
			y += size + 4.4
		}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders to path and fails the test on error.
func WriteFile(t testing.TB, path, title string, pages ...Page) {
	t.Helper()
	data, err := Render(title, pages...)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

// Join flattens line groups into one page.
func Join(groups ...[]Line) Page {
	var p Page
	for _, g := range groups {
		p = append(p, g...)
	}
	return p
}

package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries ledongthuc/pdf first, which yields
// per-glyph font metadata, then falls back to pdfcpu for plain text.
type PDFParser struct {
	FallbackPdfcpu bool

	// ParagraphGapRatio is the multiple of the page's typical line spacing
	// above which a blank line is inserted between two lines.
	ParagraphGapRatio float64
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc, err := p.extractWithFonts(data)
	if err != nil && p.FallbackPdfcpu {
		doc, err = extractPdfcpu(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailure, filename, err)
	}
	doc.Name = filename
	return doc, nil
}

// extractWithFonts reads every page through ledongthuc/pdf. The library
// panics on some malformed streams, so panics are turned into errors.
func (p *PDFParser) extractWithFonts(data []byte) (doc *doctree.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	doc = &doctree.Document{MetaTitle: infoTitle(reader)}
	gapRatio := p.ParagraphGapRatio
	if gapRatio <= 0 {
		gapRatio = 1.3
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pg := &doctree.Page{Number: i}
		pg.Width, pg.Height = mediaBox(page)

		content := page.Content()
		pg.Runs = groupRuns(content.Text, pg.Height, i)
		pg.Text = pageText(pg.Runs, gapRatio)
		if pg.Text == "" {
			if text, err := page.GetPlainText(nil); err == nil {
				pg.Text = strings.TrimSpace(text)
			}
		}
		doc.Pages = append(doc.Pages, pg)
	}
	return doc, nil
}

func infoTitle(r *pdflib.Reader) string {
	title := r.Trailer().Key("Info").Key("Title")
	if title.IsNull() {
		return ""
	}
	return strings.TrimSpace(title.Text())
}

// mediaBox resolves the page size, following Parent links since the box is
// usually inherited from the page tree.
func mediaBox(page pdflib.Page) (float64, float64) {
	box := page.V.Key("MediaBox")
	node := page.V.Key("Parent")
	for depth := 0; box.IsNull() && !node.IsNull() && depth < 32; depth++ {
		box = node.Key("MediaBox")
		node = node.Key("Parent")
	}
	if box.IsNull() || box.Len() < 4 {
		return 0, 0
	}
	return box.Index(2).Float64() - box.Index(0).Float64(), box.Index(3).Float64() - box.Index(1).Float64()
}

// groupRuns merges consecutive glyphs that share a font, size and baseline.
// Coordinates are flipped to top-down using the page height when known.
func groupRuns(glyphs []pdflib.Text, pageHeight float64, pageNum int) []doctree.TextRun {
	if pageHeight <= 0 {
		for _, g := range glyphs {
			pageHeight = math.Max(pageHeight, g.Y+g.FontSize)
		}
	}

	var runs []doctree.TextRun
	var cur *doctree.TextRun
	var curFont string
	var sb strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(sb.String())
		if cur.Text != "" {
			runs = append(runs, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" {
			continue
		}
		top := pageHeight - g.Y - g.FontSize
		bottom := pageHeight - g.Y
		if cur != nil {
			sameStyle := g.Font == curFont && math.Abs(g.FontSize-cur.FontSize) < 0.01
			sameLine := math.Abs(bottom-cur.BBox.Y1) < g.FontSize*0.5
			forward := g.X >= cur.BBox.X1-g.FontSize
			if !(sameStyle && sameLine && forward) {
				flush()
			}
		}
		if cur == nil {
			cur = &doctree.TextRun{
				FontSize:  g.FontSize,
				FontFlags: doctree.FlagsForFont(g.Font),
				BBox:      doctree.BBox{X0: g.X, Y0: top, X1: g.X + g.W, Y1: bottom},
				Page:      pageNum,
			}
			curFont = g.Font
			sb.WriteString(g.S)
			continue
		}
		gap := g.X - cur.BBox.X1
		if gap > g.FontSize*0.25 && !strings.HasSuffix(sb.String(), " ") && g.S != " " {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		cur.BBox.X1 = math.Max(cur.BBox.X1, g.X+g.W)
		cur.BBox.Y0 = math.Min(cur.BBox.Y0, top)
	}
	flush()
	return runs
}

type textLine struct {
	text     string
	baseline float64
	size     float64
	x1       float64
}

// pageText rebuilds the page's plain text from runs: runs on one baseline
// form a line, and a blank line separates lines whose spacing exceeds
// gapRatio times the typical spacing on the page.
func pageText(runs []doctree.TextRun, gapRatio float64) string {
	var lines []textLine
	for _, r := range runs {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].baseline-r.BBox.Y1) < r.FontSize*0.5 {
			last := &lines[n-1]
			if r.BBox.X0-last.x1 > r.FontSize*0.1 {
				last.text += " "
			}
			last.text += r.Text
			last.size = math.Max(last.size, r.FontSize)
			last.x1 = r.BBox.X1
			continue
		}
		lines = append(lines, textLine{text: r.Text, baseline: r.BBox.Y1, size: r.FontSize, x1: r.BBox.X1})
	}
	if len(lines) == 0 {
		return ""
	}

	var deltas []float64
	for i := 1; i < len(lines); i++ {
		if d := lines[i].baseline - lines[i-1].baseline; d > 0 {
			deltas = append(deltas, d)
		}
	}
	typical := median(deltas)

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
			d := l.baseline - lines[i-1].baseline
			if typical > 0 && (d > typical*gapRatio || d < 0) {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

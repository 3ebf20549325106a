// Package segment turns loaded documents into the two candidate streams the
// pipelines consume: font runs for outline building and paragraph sections
// for relevance ranking.
package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

const (
	// MinContentRunes is the exclusive lower bound on a section's trimmed length.
	MinContentRunes = 50
	// MaxTitleRunes is the exclusive upper bound on a section title's length.
	MaxTitleRunes = 100
)

// HeadingCandidate is a text run that may turn out to be a heading.
type HeadingCandidate struct {
	Text      string
	Page      int
	FontSize  float64
	FontFlags int
	BBox      doctree.BBox
}

// Bold reports whether the candidate carries the bold flag.
func (c HeadingCandidate) Bold() bool { return c.FontFlags&doctree.FlagBold != 0 }

// Section is a paragraph-level candidate for relevance ranking. Score and
// Rank are filled in by the analyzer.
type Section struct {
	Document string
	Page     int
	Title    string
	Content  string
	Score    float64
	Rank     int
}

// HeadingCandidates returns every run of every page, in page order and
// then reading order. No filtering happens here.
func HeadingCandidates(doc *doctree.Document) []HeadingCandidate {
	var out []HeadingCandidate
	for _, p := range doc.Pages {
		for _, r := range p.Runs {
			page := r.Page
			if page < 1 {
				page = p.Number
			}
			out = append(out, HeadingCandidate{
				Text:      r.Text,
				Page:      page,
				FontSize:  r.FontSize,
				FontFlags: r.FontFlags,
				BBox:      r.BBox,
			})
		}
	}
	return out
}

// Sections splits one page's text into section candidates. Paragraphs are
// separated by lines that are empty after trimming. A paragraph survives
// when its trimmed length exceeds MinContentRunes and it has a first line
// shorter than MaxTitleRunes followed by at least one more line.
func Sections(pageText string, page int, document string) []Section {
	var out []Section
	for _, para := range paragraphs(pageText) {
		content := strings.TrimSpace(para)
		if utf8.RuneCountInString(content) <= MinContentRunes {
			continue
		}
		lines := strings.Split(content, "\n")
		if len(lines) < 2 {
			continue
		}
		title := strings.TrimSpace(lines[0])
		if utf8.RuneCountInString(title) >= MaxTitleRunes {
			continue
		}
		out = append(out, Section{
			Document: document,
			Page:     page,
			Title:    title,
			Content:  content,
		})
	}
	return out
}

// DocumentSections applies Sections to each page of doc in order.
func DocumentSections(doc *doctree.Document) []Section {
	var out []Section
	for _, p := range doc.Pages {
		out = append(out, Sections(p.Text, p.Number, doc.Name)...)
	}
	return out
}

func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				paras = append(paras, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, "\n"))
	}
	return paras
}

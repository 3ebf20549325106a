// Package result defines the JSON documents written for outline and
// analysis runs.
package result

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
)

// TimestampLayout is the processing timestamp format: UTC, microseconds,
// fixed width so values sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

type Outline struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

type OutlineEntry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

type Analysis struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is the visible view of a ranked section. It has no score.
type ExtractedSection struct {
	Document       string `json:"document"`
	PageNumber     int    `json:"page_number"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
}

type Subsection struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// NewOutline converts a built outline into its output form.
func NewOutline(o outline.Outline) Outline {
	out := Outline{Title: o.Title, Outline: make([]OutlineEntry, 0, len(o.Headings))}
	for _, h := range o.Headings {
		out.Outline = append(out.Outline, OutlineEntry{Level: string(h.Level), Text: h.Text, Page: h.Page})
	}
	return out
}

// NewAnalysis assembles an analysis from ranked sections and excerpts.
// Slices are never nil so empty results encode as [].
func NewAnalysis(meta Metadata, ranked []segment.Section, subs []Subsection) Analysis {
	if meta.InputDocuments == nil {
		meta.InputDocuments = []string{}
	}
	a := Analysis{
		Metadata:           meta,
		ExtractedSections:  make([]ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]Subsection, 0, len(subs)),
	}
	for _, s := range ranked {
		a.ExtractedSections = append(a.ExtractedSections, ExtractedSection{
			Document:       s.Document,
			PageNumber:     s.Page,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
		})
	}
	a.SubsectionAnalysis = append(a.SubsectionAnalysis, subs...)
	return a
}

// Encode writes v as indented JSON without escaping HTML characters.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSON writes v to path, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := Encode(f, v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Package relevance scores sections against a persona and a job with an
// additive keyword-overlap model.
package relevance

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
)

// Weights of each signal.
const (
	PersonaWeight  = 2.0
	JobWeight      = 3.0
	KeywordWeight  = 1.0
	LengthDivisor  = 1000.0
	MaxLengthBonus = 2.0
)

// Category is a named group of keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is an ordered list of keyword categories. A keyword listed in
// two categories contributes twice.
type Taxonomy []Category

// DefaultTaxonomy returns the built-in research-document categories.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "methodology", Keywords: []string{"method", "approach", "technique", "procedure", "algorithm"}},
		{Name: "results", Keywords: []string{"result", "finding", "outcome", "performance", "evaluation"}},
		{Name: "introduction", Keywords: []string{"introduction", "background", "overview", "summary"}},
		{Name: "conclusion", Keywords: []string{"conclusion", "summary", "discussion", "implication"}},
		{Name: "analysis", Keywords: []string{"analysis", "examination", "study", "investigation"}},
		{Name: "data", Keywords: []string{"data", "dataset", "statistics", "metrics", "numbers"}},
	}
}

// Scorer computes relevance scores. It is safe for concurrent use.
type Scorer struct {
	keywords []string
}

// New builds a Scorer over a copy of tax, lowercased.
func New(tax Taxonomy) *Scorer {
	s := &Scorer{}
	for _, c := range tax {
		for _, k := range c.Keywords {
			s.keywords = append(s.keywords, strings.ToLower(k))
		}
	}
	return s
}

// Score returns the relevance of sec. Every persona and job token found as a
// substring of the lowercased title and content adds its weight, once per
// token occurrence in the query (repeated tokens count again). Each taxonomy
// keyword found adds KeywordWeight. Longer content earns up to
// MaxLengthBonus.
func (s *Scorer) Score(sec segment.Section, persona, job string) float64 {
	text := strings.ToLower(sec.Title + " " + sec.Content)

	score := 0.0
	for _, tok := range strings.Fields(strings.ToLower(persona)) {
		if strings.Contains(text, tok) {
			score += PersonaWeight
		}
	}
	for _, tok := range strings.Fields(strings.ToLower(job)) {
		if strings.Contains(text, tok) {
			score += JobWeight
		}
	}
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			score += KeywordWeight
		}
	}
	score += math.Min(float64(utf8.RuneCountInString(sec.Content))/LengthDivisor, MaxLengthBonus)
	return score
}

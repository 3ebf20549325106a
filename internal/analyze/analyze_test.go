package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/relevance"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/result"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/testpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// mapLoader serves documents from memory. Delays let tests finish loads
// out of order.
type mapLoader struct {
	docs   map[string]*doctree.Document
	errs   map[string]error
	delays map[string]time.Duration

	mu    sync.Mutex
	calls []string
}

func (m *mapLoader) Load(ctx context.Context, path string) (*doctree.Document, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()
	if d := m.delays[path]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.errs[path]; err != nil {
		return nil, err
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", path)
	}
	return doc, nil
}

func textDoc(name string, pages ...string) *doctree.Document {
	doc := &doctree.Document{Name: name}
	for i, p := range pages {
		doc.Pages = append(doc.Pages, &doctree.Page{Number: i + 1, Text: p})
	}
	return doc
}

func para(title string, lines ...string) string {
	return title + "\n" + strings.Join(lines, "\n")
}

var fixedNow = func() time.Time {
	return time.Date(2025, 7, 14, 9, 30, 15, 123456789, time.FixedZone("IST", 5*3600+1800))
}

func newAnalyzer(l parser.Loader, workers int) *Analyzer {
	a := New(l, relevance.New(relevance.DefaultTaxonomy()), workers, discard)
	a.Now = fixedNow
	return a
}

func TestAnalyze_ComputationalBiology(t *testing.T) {
	l := &mapLoader{docs: map[string]*doctree.Document{
		"/in/gnn.pdf": textDoc("gnn.pdf",
			para("Acknowledgements", "We thank the reviewers for their comments on the draft.")+"\n\n"+
				para("Methodology Overview",
					"Our approach trains graph networks on molecular data.",
					"Benchmarks compare against earlier baselines."),
		),
	}}
	out, err := newAnalyzer(l, 1).Analyze(context.Background(), []string{"/in/gnn.pdf"},
		"PhD Researcher in Computational Biology", "literature review methodologies")
	require.NoError(t, err)

	require.NotEmpty(t, out.ExtractedSections)
	top := out.ExtractedSections[0]
	assert.Equal(t, result.ExtractedSection{Document: "gnn.pdf", PageNumber: 1, SectionTitle: "Methodology Overview", ImportanceRank: 1}, top)

	assert.Equal(t, []string{"gnn.pdf"}, out.Metadata.InputDocuments)
	assert.Equal(t, "PhD Researcher in Computational Biology", out.Metadata.Persona)
	assert.Equal(t, "literature review methodologies", out.Metadata.JobToBeDone)
	assert.Equal(t, "2025-07-14T04:00:15.123456Z", out.Metadata.ProcessingTimestamp)

	require.NotEmpty(t, out.SubsectionAnalysis)
	// The 20-rune title line is too short to be part of the excerpt.
	assert.Equal(t,
		"Our approach trains graph networks on molecular data. Benchmarks compare against earlier baselines.",
		out.SubsectionAnalysis[0].RefinedText)
}

func TestAnalyze_ZeroParagraphDocument(t *testing.T) {
	l := &mapLoader{docs: map[string]*doctree.Document{"/in/blank.pdf": textDoc("blank.pdf", "", "x")}}
	out, err := newAnalyzer(l, 2).Analyze(context.Background(), []string{"/in/blank.pdf"}, "p", "j")
	require.NoError(t, err)
	assert.Empty(t, out.ExtractedSections)
	assert.NotNil(t, out.ExtractedSections)
	assert.Empty(t, out.SubsectionAnalysis)
	assert.NotNil(t, out.SubsectionAnalysis)
	assert.Equal(t, []string{"blank.pdf"}, out.Metadata.InputDocuments)
}

func TestAnalyze_FifteenCandidatesAcrossTwoDocuments(t *testing.T) {
	build := func(name string, n int) *doctree.Document {
		var paras []string
		for i := 0; i < n; i++ {
			paras = append(paras, para(fmt.Sprintf("%s section %d", name, i),
				"A substantial line of body text for the excerpt.",
				"Another substantial line that is long enough."))
		}
		return textDoc(name, strings.Join(paras, "\n\n"))
	}
	l := &mapLoader{docs: map[string]*doctree.Document{
		"/in/a.pdf": build("a", 8),
		"/in/b.pdf": build("b", 7),
	}}
	out, err := newAnalyzer(l, 2).Analyze(context.Background(), []string{"/in/a.pdf", "/in/b.pdf"}, "nobody", "nothing")
	require.NoError(t, err)

	require.Len(t, out.ExtractedSections, MaxSections)
	for i, s := range out.ExtractedSections {
		assert.Equal(t, i+1, s.ImportanceRank)
	}
	// All scores tie, so discovery order decides.
	assert.Equal(t, "a section 0", out.ExtractedSections[0].SectionTitle)
	assert.Equal(t, "a section 7", out.ExtractedSections[7].SectionTitle)
	assert.Equal(t, "b section 0", out.ExtractedSections[8].SectionTitle)
	assert.Equal(t, "b section 1", out.ExtractedSections[9].SectionTitle)

	require.Len(t, out.SubsectionAnalysis, MaxSubsections)
	for _, s := range out.SubsectionAnalysis {
		assert.LessOrEqual(t, len([]rune(s.RefinedText)), 500)
	}

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NoError(t, result.ValidateAnalysisJSON(data))
}

func TestAnalyze_ParallelKeepsInputOrder(t *testing.T) {
	// Equal-length titles tie on score; the earlier documents finish last.
	l := &mapLoader{
		docs: map[string]*doctree.Document{
			"/in/1.pdf": textDoc("1.pdf", para("First doc", "Body text that is long enough to become a section.")),
			"/in/2.pdf": textDoc("2.pdf", para("Other doc", "Body text that is long enough to become a section.")),
			"/in/3.pdf": textDoc("3.pdf", para("Third doc", "Body text that is long enough to become a section.")),
		},
		delays: map[string]time.Duration{"/in/1.pdf": 60 * time.Millisecond, "/in/2.pdf": 30 * time.Millisecond},
	}
	out, err := newAnalyzer(l, 3).Analyze(context.Background(), []string{"/in/1.pdf", "/in/2.pdf", "/in/3.pdf"}, "x", "y")
	require.NoError(t, err)

	var titles []string
	for _, s := range out.ExtractedSections {
		titles = append(titles, s.SectionTitle)
	}
	assert.Equal(t, []string{"First doc", "Other doc", "Third doc"}, titles)
}

func TestAnalyze_SkipsFailingDocuments(t *testing.T) {
	l := &mapLoader{
		docs: map[string]*doctree.Document{
			"/in/good.pdf": textDoc("good.pdf", para("Good section", "Body text that is long enough to become a section.")),
		},
		errs: map[string]error{"/in/bad.pdf": fmt.Errorf("%w: bad.pdf: eof", parser.ErrParseFailure)},
	}
	out, err := newAnalyzer(l, 2).Analyze(context.Background(), []string{"/in/bad.pdf", "/in/missing.pdf", "/in/good.pdf"}, "x", "y")
	require.NoError(t, err)
	require.Len(t, out.ExtractedSections, 1)
	assert.Equal(t, "good.pdf", out.ExtractedSections[0].Document)
	assert.Equal(t, []string{"bad.pdf", "missing.pdf", "good.pdf"}, out.Metadata.InputDocuments)
}

func TestAnalyze_AllFailing(t *testing.T) {
	l := &mapLoader{}
	out, err := newAnalyzer(l, 1).Analyze(context.Background(), []string{"/in/a.pdf", "/in/b.pdf"}, "x", "y")
	require.NoError(t, err)
	assert.Empty(t, out.ExtractedSections)
}

func TestAnalyze_Canceled(t *testing.T) {
	l := &mapLoader{
		docs:   map[string]*doctree.Document{"/in/slow.pdf": textDoc("slow.pdf", "")},
		delays: map[string]time.Duration{"/in/slow.pdf": time.Second},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newAnalyzer(l, 1).Analyze(ctx, []string{"/in/slow.pdf"}, "x", "y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRank_StableTies(t *testing.T) {
	scorer := relevance.New(relevance.DefaultTaxonomy())
	in := []segment.Section{
		{Title: "plain one", Content: "plain one"},
		{Title: "the method", Content: "the method"},
		{Title: "plain two", Content: "plain two"},
		{Title: "plain six", Content: "plain six"},
	}
	got := Rank(in, scorer, "", "")
	require.Len(t, got, 4)
	assert.Equal(t, "the method", got[0].Title)
	assert.Equal(t, []string{"plain one", "plain two", "plain six"}, []string{got[1].Title, got[2].Title, got[3].Title})
	assert.Equal(t, []int{1, 2, 3, 4}, []int{got[0].Rank, got[1].Rank, got[2].Rank, got[3].Rank})
	assert.Zero(t, in[0].Score, "input is not modified")

	again := Rank(in, scorer, "", "")
	assert.Equal(t, got, again)
}

func TestExcerpts(t *testing.T) {
	long := strings.Repeat("ß", 300)
	ranked := []segment.Section{
		{Document: "a.pdf", Page: 1, Content: "short\n   padded line that is long enough   \nanother line exceeding twenty\nthird qualifying line here!\nfourth qualifying line here!"},
		{Document: "a.pdf", Page: 2, Content: "tiny\nlines\nonly here"},
		{Document: "b.pdf", Page: 3, Content: long + "\n" + long},
		{Document: "b.pdf", Page: 4, Content: "exactly twenty chars\ntwenty-one characters"},
		{Document: "c.pdf", Page: 5, Content: "the fifth section has one good line"},
		{Document: "c.pdf", Page: 6, Content: "the sixth section is never excerpted"},
	}
	got := Excerpts(ranked)
	require.Len(t, got, 4)

	assert.Equal(t, "padded line that is long enough another line exceeding twenty third qualifying line here!", got[0].RefinedText)
	assert.Equal(t, 1, got[0].PageNumber)

	assert.Equal(t, "b.pdf", got[1].Document)
	assert.Equal(t, 500, len([]rune(got[1].RefinedText)))

	assert.Equal(t, "twenty-one characters", got[2].RefinedText)
	assert.Equal(t, 5, got[3].PageNumber)
}

func TestAnalyze_RenderedPDFs(t *testing.T) {
	dir := t.TempDir()
	recipes := filepath.Join(dir, "recipes.pdf")
	testpdf.WriteFile(t, recipes, "", testpdf.Join(
		[]testpdf.Line{testpdf.Heading("Vegetarian Mains", 16)},
		[]testpdf.Line{
			testpdf.Body("Roasted vegetable lasagna feeds a large group."),
			testpdf.Body("Prepare the sauce a day ahead for a buffet."),
		},
		[]testpdf.Line{testpdf.Heading("Desserts", 16)},
		[]testpdf.Line{
			testpdf.Body("Fruit tarts can be baked in the morning."),
			testpdf.Body("Serve them chilled with fresh cream."),
		},
	))
	a := newAnalyzer(&parser.FileLoader{}, 2)
	out, err := a.Analyze(context.Background(), []string{recipes}, "Food Contractor", "Prepare a vegetarian buffet menu")
	require.NoError(t, err)
	require.Len(t, out.ExtractedSections, 2)
	assert.Equal(t, "Vegetarian Mains", out.ExtractedSections[0].SectionTitle)
	assert.Equal(t, "recipes.pdf", out.ExtractedSections[0].Document)
}

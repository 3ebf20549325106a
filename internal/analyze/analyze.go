// Package analyze ranks sections from a set of documents by relevance to a
// persona and a job.
package analyze

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/relevance"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/result"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxSections caps extracted_sections.
	MaxSections = 10
	// MaxSubsections caps subsection_analysis; excerpts come from the top-ranked sections.
	MaxSubsections = 5

	excerptLines     = 3
	excerptLineRunes = 20 // lines must be longer than this
	excerptMaxRunes  = 500
)

// Analyzer loads documents, segments and scores their sections, and keeps
// the best ones.
type Analyzer struct {
	loader  parser.Loader
	scorer  *relevance.Scorer
	workers int
	log     *slog.Logger

	// Now stamps the result. Defaults to time.Now.
	Now func() time.Time
}

// New returns an Analyzer loading up to workers documents at once.
func New(loader parser.Loader, scorer *relevance.Scorer, workers int, log *slog.Logger) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{loader: loader, scorer: scorer, workers: workers, log: log, Now: time.Now}
}

// Analyze processes paths in order. Documents that fail to load are logged
// and left out; only cancellation of ctx is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, paths []string, persona, job string) (*result.Analysis, error) {
	sections, err := a.collect(ctx, paths)
	if err != nil {
		return nil, err
	}

	ranked := Rank(sections, a.scorer, persona, job)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	meta := result.Metadata{
		InputDocuments:      names,
		Persona:             persona,
		JobToBeDone:         job,
		ProcessingTimestamp: a.Now().UTC().Format(result.TimestampLayout),
	}
	out := result.NewAnalysis(meta, ranked, Excerpts(ranked))
	return &out, nil
}

// collect loads documents concurrently into per-index slots and flattens
// them in input order, so the sequence matches a sequential run.
func (a *Analyzer) collect(ctx context.Context, paths []string) ([]segment.Section, error) {
	slots := make([][]segment.Section, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := a.loader.Load(gctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				a.log.Warn("skipping document", "document", filepath.Base(path), "error", err)
				return nil
			}
			slots[i] = segment.DocumentSections(doc)
			a.log.Debug("document segmented", "document", doc.Name, "pages", len(doc.Pages), "sections", len(slots[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []segment.Section
	for _, s := range slots {
		all = append(all, s...)
	}
	return all, nil
}

// Rank scores every section, sorts by score descending keeping discovery
// order among equal scores, and returns the first MaxSections with ranks
// 1..n. The input slice is not modified.
func Rank(sections []segment.Section, scorer *relevance.Scorer, persona, job string) []segment.Section {
	scored := make([]segment.Section, len(sections))
	for i, s := range sections {
		s.Score = scorer.Score(s, persona, job)
		scored[i] = s
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > MaxSections {
		scored = scored[:MaxSections]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// Excerpts derives refined text from the first MaxSubsections ranked
// sections. Sections with no substantial line produce no excerpt.
func Excerpts(ranked []segment.Section) []result.Subsection {
	if len(ranked) > MaxSubsections {
		ranked = ranked[:MaxSubsections]
	}
	var subs []result.Subsection
	for _, s := range ranked {
		text := refine(s.Content)
		if text == "" {
			continue
		}
		subs = append(subs, result.Subsection{Document: s.Document, RefinedText: text, PageNumber: s.Page})
	}
	return subs
}

func refine(content string) string {
	var picked []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= excerptLineRunes {
			continue
		}
		picked = append(picked, line)
		if len(picked) == excerptLines {
			break
		}
	}
	text := strings.Join(picked, " ")
	if utf8.RuneCountInString(text) > excerptMaxRunes {
		text = string([]rune(text)[:excerptMaxRunes])
	}
	return text
}

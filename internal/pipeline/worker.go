package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/analyze"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/result"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/stats"
)

// Worker runs one job at a time.
type Worker struct {
	loader   parser.Loader
	builder  *outline.Builder
	analyzer *analyze.Analyzer
	stats    *stats.Latency
	log      *slog.Logger
}

func NewWorker(loader parser.Loader, builder *outline.Builder, analyzer *analyze.Analyzer, st *stats.Latency, log *slog.Logger) *Worker {
	return &Worker{loader: loader, builder: builder, analyzer: analyzer, stats: st, log: log}
}

// Process runs the job's pipeline, stores the encoded result on the job,
// and removes the job's uploads.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)
	start := time.Now()
	defer func() {
		if dir := job.Dir(); dir != "" {
			if err := os.RemoveAll(dir); err != nil {
				log.Warn("upload cleanup failed", "dir", dir, "error", err)
			}
		}
	}()

	var doc any
	var err error
	switch job.Kind {
	case KindOutline:
		doc, err = w.outline(ctx, job)
	case KindAnalyze:
		doc, err = w.analyze(ctx, job)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}

	var buf bytes.Buffer
	if err == nil {
		err = result.Encode(&buf, doc)
	}
	elapsed := time.Since(start)
	w.stats.Record(string(job.Kind), elapsed, err != nil)

	if err != nil {
		log.Error("job failed", "error", err, "duration_ms", elapsed.Milliseconds())
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "failed")
		return
	}
	job.SetResult(buf.Bytes())
	job.SetStatus(StatusCompleted, "done")
	log.Info("job completed", "duration_ms", elapsed.Milliseconds())
}

func (w *Worker) outline(ctx context.Context, job *Job) (any, error) {
	paths := job.Paths()
	if len(paths) != 1 {
		return nil, fmt.Errorf("outline needs exactly one document, got %d", len(paths))
	}
	job.SetStatus(StatusLoading, "loading")
	doc, err := w.loader.Load(ctx, paths[0])
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	job.SetStatus(StatusProcessing, "building outline")
	return result.NewOutline(w.builder.Build(doc)), nil
}

func (w *Worker) analyze(ctx context.Context, job *Job) (any, error) {
	job.SetStatus(StatusProcessing, "analyzing")
	snap := job.Snapshot()
	a, err := w.analyzer.Analyze(ctx, job.Paths(), snap.Persona, snap.JobToBeDone)
	if err != nil {
		return nil, err
	}
	return a, nil
}

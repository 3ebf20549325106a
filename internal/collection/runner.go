package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/analyze"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/result"
)

// PDFDir is the per-collection directory holding the documents.
const PDFDir = "PDFs"

// Report counts what a batch run did.
type Report struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Runner drives both batch pipelines. Failures are isolated per input;
// only a missing input directory or cancellation aborts a run.
type Runner struct {
	Loader   parser.Loader
	Builder  *outline.Builder
	Analyzer *analyze.Analyzer
	Log      *slog.Logger
}

// Outlines writes OUTPUT/<stem>.json for every *.pdf in inputDir.
func (r *Runner) Outlines(ctx context.Context, inputDir, outputDir string) (Report, error) {
	start := time.Now()
	var rep Report
	if err := requireDir(inputDir); err != nil {
		return rep, err
	}
	pdfs, err := filepath.Glob(filepath.Join(inputDir, "*.pdf"))
	if err != nil {
		return rep, err
	}

	for _, path := range pdfs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		name := filepath.Base(path)
		docStart := time.Now()
		doc, err := r.Loader.Load(ctx, path)
		if err != nil {
			if isCancel(err) {
				return rep, err
			}
			r.Log.Error("outline failed", "document", name, "error", err)
			rep.Failed++
			continue
		}
		o := r.Builder.Build(doc)
		out := filepath.Join(outputDir, stem(name)+".json")
		if err := result.WriteJSON(out, result.NewOutline(o)); err != nil {
			r.Log.Error("write outline", "document", name, "error", err)
			rep.Failed++
			continue
		}
		rep.Processed++
		r.Log.Info("outline written", "document", name, "headings", len(o.Headings),
			"output", out, "duration_ms", time.Since(docStart).Milliseconds())
	}

	rep.Duration = time.Since(start)
	r.logReport("outline", rep, len(pdfs))
	return rep, nil
}

// Collections analyzes inputDir as a single collection when it holds a
// descriptor, otherwise each of its sub-directories in name order.
func (r *Runner) Collections(ctx context.Context, inputDir, outputDir string) (Report, error) {
	start := time.Now()
	var rep Report
	if err := requireDir(inputDir); err != nil {
		return rep, err
	}

	var cases []string
	if _, err := findDescriptor(inputDir); err == nil {
		cases = []string{inputDir}
	} else {
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return rep, err
		}
		for _, e := range entries {
			if e.IsDir() {
				cases = append(cases, filepath.Join(inputDir, e.Name()))
			}
		}
	}

	for _, dir := range cases {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		name := filepath.Base(dir)
		err := r.runCollection(ctx, dir, outputDir)
		switch {
		case err == nil:
			rep.Processed++
		case isCancel(err):
			return rep, err
		case errors.Is(err, ErrInputNotFound), errors.Is(err, ErrMalformedMetadata):
			r.Log.Warn("skipping collection", "collection", name, "error", err)
			rep.Skipped++
		default:
			r.Log.Error("collection failed", "collection", name, "error", err)
			rep.Failed++
		}
	}

	rep.Duration = time.Since(start)
	r.logReport("analyze", rep, len(cases))
	return rep, nil
}

func (r *Runner) runCollection(ctx context.Context, dir, outputDir string) error {
	start := time.Now()
	descPath, err := findDescriptor(dir)
	if err != nil {
		return err
	}
	desc, err := LoadDescriptor(descPath)
	if err != nil {
		return err
	}
	pdfDir := filepath.Join(dir, PDFDir)
	if err := requireDir(pdfDir); err != nil {
		return err
	}
	paths, err := r.documentPaths(desc, pdfDir)
	if err != nil {
		return err
	}

	a, err := r.Analyzer.Analyze(ctx, paths, desc.Persona.Role, desc.JobToBeDone.Task)
	if err != nil {
		return err
	}
	out := filepath.Join(outputDir, filepath.Base(dir), stem(filepath.Base(descPath))+"_output.json")
	if err := result.WriteJSON(out, a); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	r.Log.Info("analysis written",
		"collection", filepath.Base(dir),
		"documents", len(paths),
		"sections", len(a.ExtractedSections),
		"output", out,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// documentPaths resolves the descriptor's document list against pdfDir.
// Listed files that are missing are logged and left out. An empty list
// means every *.pdf in pdfDir.
func (r *Runner) documentPaths(desc *Descriptor, pdfDir string) ([]string, error) {
	var paths []string
	if len(desc.Documents) == 0 {
		matches, err := filepath.Glob(filepath.Join(pdfDir, "*.pdf"))
		if err != nil {
			return nil, err
		}
		paths = matches
	}
	for _, ref := range desc.Documents {
		path := filepath.Join(pdfDir, filepath.Base(ref.Filename))
		if _, err := os.Stat(path); err != nil {
			r.Log.Warn("skipping document", "document", ref.Filename, "error", fmt.Errorf("%w: %v", ErrInputNotFound, err))
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no documents in %s", ErrInputNotFound, pdfDir)
	}
	return paths, nil
}

func (r *Runner) logReport(kind string, rep Report, inputs int) {
	r.Log.Info("batch finished",
		"kind", kind,
		"inputs", inputs,
		"processed", rep.Processed,
		"skipped", rep.Skipped,
		"failed", rep.Failed,
		"duration_ms", rep.Duration.Milliseconds(),
	)
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, dir)
	}
	return nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

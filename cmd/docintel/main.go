// Command docintel runs the batch pipelines over a directory tree.
//
//	docintel outline  [-input DIR] [-output DIR]
//	docintel analyze  [-input DIR] [-output DIR]
//	docintel validate -kind outline|analysis FILE...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/analyze"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/cache"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/collection"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/config"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/logging"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/relevance"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/result"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: docintel outline|analyze [-input DIR] [-output DIR] [-timeout D] [-log-level L]")
	fmt.Fprintln(w, "       docintel validate -kind outline|analysis FILE...")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "load configuration:", err)
		return 1
	}

	switch args[0] {
	case "outline", "analyze":
		return runBatch(args[0], args[1:], cfg, stderr)
	case "validate":
		return runValidate(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func runBatch(cmd string, args []string, cfg config.Config, stderr io.Writer) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", cfg.InputDir, "input directory")
	output := fs.String("output", cfg.OutputDir, "output directory")
	timeout := fs.Duration("timeout", 0, "wall-clock limit for the run (0 = none)")
	level := fs.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, closer := logging.NewWithWriter(stderr, *level, cfg.LogFile)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	store, err := cache.New(cfg.CacheConfig())
	if err != nil {
		log.Warn("cache disabled", "type", cfg.CacheType, "error", err)
		store = cache.Nop{}
	}
	defer store.Close()

	loader := &parser.CachingLoader{
		Next:  &parser.FileLoader{FallbackPdfcpu: cfg.PDFFallbackPdfcpu},
		Cache: store,
		TTL:   cfg.CacheTTL,
		Log:   log,
	}
	runner := &collection.Runner{
		Loader:   loader,
		Builder:  outline.NewBuilder(outline.DefaultConfig()),
		Analyzer: analyze.New(loader, relevance.New(relevance.DefaultTaxonomy()), cfg.ExtractWorkers, log),
		Log:      log,
	}

	start := time.Now()
	var rep collection.Report
	if cmd == "outline" {
		rep, err = runner.Outlines(ctx, *input, *output)
	} else {
		rep, err = runner.Collections(ctx, *input, *output)
	}
	if err != nil {
		log.Error("batch aborted", "command", cmd, "input", *input, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return 1
	}
	if rep.Processed == 0 && rep.Skipped+rep.Failed > 0 {
		log.Warn("nothing processed", "command", cmd, "input", *input)
	}
	return 0
}

func runValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "analysis", "outline or analysis")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	var check func([]byte) error
	switch *kind {
	case "outline":
		check = result.ValidateOutlineJSON
	case "analysis":
		check = result.ValidateAnalysisJSON
	default:
		fmt.Fprintf(stderr, "unknown kind %q\n", *kind)
		return 2
	}

	code := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err == nil {
			err = check(data)
		}
		var verr *result.ValidationError
		switch {
		case err == nil:
			fmt.Fprintf(stdout, "%s: ok\n", path)
		case errors.As(err, &verr):
			fmt.Fprintf(stdout, "%s: invalid\n", path)
			for _, p := range verr.Problems {
				fmt.Fprintf(stdout, "  - %s\n", p)
			}
			code = 1
		default:
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			code = 1
		}
	}
	return code
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/analyze"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/config"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/relevance"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/stats"
)

// Orchestrator queues jobs onto a fixed pool of workers.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	loader   parser.Loader
	builder  *outline.Builder
	analyzer *analyze.Analyzer
	stats    *stats.Latency
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipelines. Call Start to begin processing.
func NewOrchestrator(cfg config.Config, loader parser.Loader, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		loader:   loader,
		builder:  outline.NewBuilder(outline.DefaultConfig()),
		analyzer: analyze.New(loader, relevance.New(relevance.DefaultTaxonomy()), cfg.ExtractWorkers, log),
		stats:    stats.NewLatency(time.Hour),
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.loader, o.builder, o.analyzer, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels running jobs and waits for workers to exit. Jobs still
// queued are failed and their uploads removed.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()

	for job := range o.queue {
		job.AddError("service stopped before the job ran")
		job.SetStatus(StatusFailed, "canceled")
		if dir := job.Dir(); dir != "" {
			if err := os.RemoveAll(dir); err != nil {
				o.log.Warn("upload cleanup failed", "job_id", job.ID, "dir", dir, "error", err)
			}
		}
	}
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns job latency aggregates by kind.
func (o *Orchestrator) Stats() map[string]stats.Snapshot {
	return o.stats.Snapshot()
}

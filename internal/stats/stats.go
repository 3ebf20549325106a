// Package stats keeps rolling latency statistics for processed jobs.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	kind     string
	duration time.Duration
	failed   bool
}

// Snapshot aggregates the samples of one job kind.
type Snapshot struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Latency records job runtimes within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{samples: make([]sample, 0, 256), window: window, now: time.Now}
}

// Record adds one job run. Negative durations count as zero.
func (l *Latency) Record(kind string, d time.Duration, failed bool) {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, kind: kind, duration: d, failed: failed})
}

// Snapshot returns aggregates per job kind plus an "all" entry.
func (l *Latency) Snapshot() map[string]Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	groups := map[string][]sample{}
	for _, s := range l.samples {
		groups[s.kind] = append(groups[s.kind], s)
		groups["all"] = append(groups["all"], s)
	}
	out := make(map[string]Snapshot, len(groups))
	for kind, ss := range groups {
		out[kind] = aggregate(ss)
	}
	return out
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	keep := l.samples[:0]
	for _, s := range l.samples {
		if !s.at.Before(cutoff) {
			keep = append(keep, s)
		}
	}
	l.samples = keep
}

func aggregate(ss []sample) Snapshot {
	values := make([]int64, 0, len(ss))
	var sum int64
	snap := Snapshot{Count: len(ss)}
	for _, s := range ss {
		ms := s.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
		if s.failed {
			snap.Failed++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	frac := idx - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*frac
}

package stats

import (
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	l := NewLatency(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		l.Record("analyze", time.Duration(ms)*time.Millisecond, false)
	}

	snap := l.Snapshot()["analyze"]
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyGroupsByKind(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record("outline", 10*time.Millisecond, false)
	l.Record("outline", 30*time.Millisecond, true)
	l.Record("analyze", 50*time.Millisecond, false)

	snaps := l.Snapshot()
	if got := snaps["outline"]; got.Count != 2 || got.Failed != 1 || got.AvgMs != 20 {
		t.Fatalf("unexpected outline snapshot %+v", got)
	}
	if got := snaps["all"]; got.Count != 3 || got.MaxMs != 50 {
		t.Fatalf("unexpected all snapshot %+v", got)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatency(time.Minute)
	l.now = func() time.Time { return now }

	l.Record("outline", 100*time.Millisecond, false)
	now = now.Add(2 * time.Minute)

	if snaps := l.Snapshot(); len(snaps) != 0 {
		t.Fatalf("expected no samples after prune, got %+v", snaps)
	}

	l.Record("outline", 200*time.Millisecond, false)
	snap := l.Snapshot()["outline"]
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh 200ms sample, got %+v", snap)
	}
}

func TestLatencyClampsNegativeDuration(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record("outline", -time.Second, false)
	snap := l.Snapshot()["outline"]
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap)
	}
}

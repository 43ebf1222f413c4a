package progress

import (
	"testing"
	"time"
)

func collectTracker(interval time.Duration) (*Tracker, *[]float64) {
	percents := &[]float64{}
	tr := NewTracker(1000, 4096, interval, func(percent float64, message string) {
		*percents = append(*percents, percent)
	})
	return tr, percents
}

func runFullSequence(tr *Tracker) {
	tr.StartStage(StageMetadata, "collecting file info")
	tr.Advance(1, 1)
	tr.StartStage(StageIoRead, "reading geometry")
	for i := int64(1); i <= 10; i++ {
		tr.Advance(i, 10)
	}
	tr.StartStage(StageParsing, "decoding triangles")
	tr.Advance(1000, 1000)
	tr.StartStage(StageRendering, "rendering thumbnail")
	tr.Complete("imported")
}

func TestTrackerMonotonicAndTerminates(t *testing.T) {
	tr, percents := collectTracker(0)
	runFullSequence(tr)

	got := *percents
	if len(got) == 0 {
		t.Fatal("no updates delivered")
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("percent regressed at update %d: %v -> %v", i, got[i-1], got[i])
		}
	}
	if got[len(got)-1] != 100 {
		t.Errorf("final percent: expected 100, got %v", got[len(got)-1])
	}
}

func TestTrackerFirstAndLastBypassThrottle(t *testing.T) {
	// An hour-long interval throttles everything except the
	// unconditional first and final updates.
	tr, percents := collectTracker(time.Hour)
	runFullSequence(tr)

	got := *percents
	if len(got) != 2 {
		t.Fatalf("expected exactly first and final updates, got %d: %v", len(got), got)
	}
	if got[0] != 0 {
		t.Errorf("first update: expected 0, got %v", got[0])
	}
	if got[1] != 100 {
		t.Errorf("final update: expected 100, got %v", got[1])
	}
}

func TestTrackerStageRanges(t *testing.T) {
	tests := []struct {
		stage Stage
		start float64
		end   float64
	}{
		{StageMetadata, 0, 5},
		{StageIoRead, 5, 25},
		{StageParsing, 25, 85},
		{StageRendering, 85, 100},
	}
	for _, tt := range tests {
		var last float64
		tr := NewTracker(0, 0, 0, func(percent float64, message string) {
			last = percent
		})
		// Walk forward to the stage under test.
		for s := StageMetadata; s <= tt.stage; s++ {
			tr.StartStage(s, s.String())
		}
		if last != tt.start {
			t.Errorf("%v start: expected %v, got %v", tt.stage, tt.start, last)
		}
		tr.Advance(1, 1)
		if last != tt.end {
			t.Errorf("%v end: expected %v, got %v", tt.stage, tt.end, last)
		}
	}
}

func TestTrackerIgnoresBackwardTransitions(t *testing.T) {
	tr, percents := collectTracker(0)
	tr.StartStage(StageParsing, "decoding")
	tr.StartStage(StageIoRead, "reading")
	tr.Advance(1, 2)

	got := *percents
	for _, p := range got {
		if p < 25 {
			t.Errorf("backward stage transition leaked percent %v", p)
		}
	}
}

func TestTrackerStats(t *testing.T) {
	tr, _ := collectTracker(time.Hour)
	runFullSequence(tr)

	stats := tr.Stats()
	if stats.Emitted != 2 {
		t.Errorf("emitted: expected 2, got %d", stats.Emitted)
	}
	if stats.Throttled == 0 {
		t.Error("expected some updates to be throttled")
	}
	if stats.Requested != stats.Emitted+stats.Throttled {
		t.Errorf("requested (%d) != emitted (%d) + throttled (%d)",
			stats.Requested, stats.Emitted, stats.Throttled)
	}
}

func TestTrackerNoUpdatesAfterComplete(t *testing.T) {
	tr, percents := collectTracker(0)
	tr.StartStage(StageIoRead, "reading")
	tr.Complete("done")
	before := len(*percents)

	tr.Advance(1, 2)
	tr.StartStage(StageRendering, "late")
	tr.Complete("again")

	if len(*percents) != before {
		t.Errorf("updates delivered after completion: %v", (*percents)[before:])
	}
}

func TestThroughputEstimates(t *testing.T) {
	tp := Throughput{IoBytesPerSecond: 1024, TrianglesPerSecond: 100}

	if d := tp.EstimateStage(StageIoRead, 2048, 0); d != 2*time.Second {
		t.Errorf("io estimate: expected 2s, got %v", d)
	}
	if d := tp.EstimateStage(StageParsing, 0, 50); d != 500*time.Millisecond {
		t.Errorf("parse estimate: expected 500ms, got %v", d)
	}
	if d := tp.EstimateStage(StageMetadata, 100, 100); d != 0 {
		t.Errorf("metadata estimate: expected 0, got %v", d)
	}
}

// Package progress maps import stages and work-unit counters onto a
// 0-100 percentage with throttled delivery to a registered callback.
package progress

import (
	"sync"
	"time"
)

// Stage identifies one phase of a single file's import.
// Transitions are strictly forward; no stage is revisited.
type Stage int

const (
	StageMetadata Stage = iota
	StageIoRead
	StageParsing
	StageRendering
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageMetadata:
		return "metadata"
	case StageIoRead:
		return "reading"
	case StageParsing:
		return "parsing"
	case StageRendering:
		return "rendering"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// stageSpans holds the fixed percent range of each stage, weighted
// roughly by observed cost: I/O and parsing dominate an import.
var stageSpans = [...]struct{ start, end float64 }{
	StageMetadata:  {0, 5},
	StageIoRead:    {5, 25},
	StageParsing:   {25, 85},
	StageRendering: {85, 100},
	StageComplete:  {100, 100},
}

// Callback receives percent/message pairs. The very first and the very
// final update always fire; intermediate ones are throttled.
type Callback func(percent float64, message string)

// Throughput carries the configured rate constants used only to
// produce human-facing ETA text, never to gate correctness.
type Throughput struct {
	IoBytesPerSecond   float64
	TrianglesPerSecond float64
}

// EstimateStage returns the expected duration of a stage for a file of
// the given size and triangle count. Zero when no constant applies.
func (t Throughput) EstimateStage(stage Stage, fileSize int64, triangles int) time.Duration {
	switch stage {
	case StageIoRead:
		if t.IoBytesPerSecond > 0 {
			return time.Duration(float64(fileSize) / t.IoBytesPerSecond * float64(time.Second))
		}
	case StageParsing, StageRendering:
		if t.TrianglesPerSecond > 0 {
			return time.Duration(float64(triangles) / t.TrianglesPerSecond * float64(time.Second))
		}
	}
	return 0
}

// Stats counts update traffic for diagnostics.
type Stats struct {
	Requested uint64
	Emitted   uint64
	Throttled uint64
}

// Tracker is a per-file progress calculator. It is handed from the
// load worker to the processing task, which uses it sequentially, but
// a mutex keeps it safe regardless of delivery goroutine.
type Tracker struct {
	mu       sync.Mutex
	stage    Stage
	message  string
	percent  float64
	started  bool
	finished bool

	triangleHint int
	fileSize     int64

	throttle *Throttle
	callback Callback
	stats    Stats
}

// NewTracker creates a tracker for one file. triangleHint may be zero
// when the count is not yet known; SetTriangleHint refines it after
// decode.
func NewTracker(triangleHint int, fileSize int64, interval time.Duration, callback Callback) *Tracker {
	return &Tracker{
		stage:        StageMetadata,
		triangleHint: triangleHint,
		fileSize:     fileSize,
		throttle:     NewThrottle(interval),
		callback:     callback,
	}
}

// SetTriangleHint updates the triangle count once decode knows it
func (t *Tracker) SetTriangleHint(count int) {
	t.mu.Lock()
	t.triangleHint = count
	t.mu.Unlock()
}

// TriangleHint returns the current triangle count estimate
func (t *Tracker) TriangleHint() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.triangleHint
}

// FileSize returns the byte size the tracker was constructed with
func (t *Tracker) FileSize() int64 {
	return t.fileSize
}

// StartStage enters a stage and emits its opening percentage.
// Backward transitions are ignored, preserving monotonicity.
func (t *Tracker) StartStage(stage Stage, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	if t.started && stage <= t.stage {
		return
	}

	first := !t.started
	t.started = true
	t.stage = stage
	t.message = message
	if p := stageSpans[stage].start; p > t.percent {
		t.percent = p
	}
	t.emit(first)
}

// Advance reports work units completed within the current stage.
func (t *Tracker) Advance(done, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || total <= 0 {
		return
	}

	frac := float64(done) / float64(total)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	span := stageSpans[t.stage]
	if p := span.start + (span.end-span.start)*frac; p > t.percent {
		t.percent = p
	}
	t.emit(false)
}

// Complete marks the file done and unconditionally emits 100%.
func (t *Tracker) Complete(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	t.finished = true
	t.stage = StageComplete
	t.message = message
	t.percent = 100
	t.emit(true)
}

// Stats returns the update traffic counters
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// emit delivers the current state to the callback, subject to
// throttling unless force is set. Caller holds t.mu.
func (t *Tracker) emit(force bool) {
	t.stats.Requested++
	if t.callback == nil {
		return
	}
	// A forced emit still stamps the throttle window so the updates
	// right after the unconditional first one do not slip through.
	if allowed := t.throttle.Allow(); !allowed && !force {
		t.stats.Throttled++
		return
	}
	t.stats.Emitted++
	t.callback(t.percent, t.message)
}

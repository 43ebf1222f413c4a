// Package batch coordinates multi-file imports: it dispatches load
// workers, hands decoded meshes to the processing pool, owns the
// shared completion counters, and reports aggregate progress.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/store"
	"github.com/meshvault/meshvault/internal/thumbnail"
	"github.com/meshvault/meshvault/internal/utils/logger"
	"github.com/meshvault/meshvault/internal/workers/load"
	"github.com/meshvault/meshvault/internal/workers/processing"
)

// State is the coordinator's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinalizing
)

// BatchState holds the shared counters for one active batch. All
// mutation happens on the coordinator goroutine; the mutex exists for
// outside readers taking snapshots.
type BatchState struct {
	TotalExpected  uint32
	CompletedCount uint32 // successes + failures
	FailedCount    uint32
	Pending        map[string]struct{}
}

// Config sizes the pools and carries the progress tunables.
type Config struct {
	LoadWorkers         int
	LoadQueueSize       int
	ProcessingWorkers   int
	ProcessingQueueSize int

	ProgressThrottle time.Duration
	Throughput       progress.Throughput

	ThumbnailDir  string
	ThumbnailSize int
}

// Coordinator runs one batch at a time over long-lived worker pools.
type Coordinator struct {
	cfg   Config
	store store.Store

	loadPool    *load.WorkerPool
	procPool    *processing.WorkerPool
	loadResults chan load.Result
	procResults chan processing.Result

	notifications chan Notification

	mu          sync.Mutex
	state       State
	st          BatchState
	batchCtx    context.Context
	batchCancel context.CancelFunc
	cancelled   atomic.Bool
}

// NewCoordinator creates a coordinator and starts its worker pools.
func NewCoordinator(st store.Store, cfg Config) (*Coordinator, error) {
	c := &Coordinator{
		cfg:           cfg,
		store:         st,
		loadResults:   make(chan load.Result, cfg.LoadQueueSize),
		procResults:   make(chan processing.Result, cfg.ProcessingQueueSize),
		notifications: make(chan Notification, 64),
		state:         StateIdle,
	}

	c.loadPool = load.NewWorkerPool(cfg.LoadWorkers, cfg.LoadQueueSize,
		c.loadResults, cfg.Throughput, cfg.ProgressThrottle)
	c.procPool = processing.NewWorkerPool(cfg.ProcessingWorkers, cfg.ProcessingQueueSize,
		c.procResults, st, thumbnail.NewRenderer(cfg.ThumbnailSize), cfg.ThumbnailDir)

	if err := c.loadPool.Start(); err != nil {
		return nil, fmt.Errorf("starting load pool: %w", err)
	}
	if err := c.procPool.Start(); err != nil {
		c.loadPool.Stop()
		return nil, fmt.Errorf("starting processing pool: %w", err)
	}
	return c, nil
}

// Notifications returns the outbound event stream
func (c *Coordinator) Notifications() <-chan Notification {
	return c.notifications
}

// StartBatch begins importing the given files. It validates up front
// and returns before any file completes; progress and the final
// summary arrive on the notifications channel.
func (c *Coordinator) StartBatch(paths []string, precision mesh.Precision) error {
	if len(paths) == 0 {
		return fmt.Errorf("batch contains no files")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return fmt.Errorf("a batch is already running")
	}

	pending := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		pending[p] = struct{}{}
	}
	c.st = BatchState{
		TotalExpected: uint32(len(paths)),
		Pending:       pending,
	}
	c.batchCtx, c.batchCancel = context.WithCancel(context.Background())
	c.cancelled.Store(false)
	c.state = StateRunning

	go c.run(paths, precision)
	return nil
}

// Cancel aborts the active batch. In-flight processing tasks complete,
// preserving persisted work; everything else resolves as cancelled.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.cancelled.Store(true)
	c.batchCancel()
}

// Snapshot returns a copy of the live batch counters
func (c *Coordinator) Snapshot() BatchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BatchState{
		TotalExpected:  c.st.TotalExpected,
		CompletedCount: c.st.CompletedCount,
		FailedCount:    c.st.FailedCount,
	}
}

// Stop shuts down the worker pools. Call only with no batch running.
func (c *Coordinator) Stop() {
	c.loadPool.Stop()
	c.procPool.Stop()
}

// run is the coordinating goroutine: the only mutator of BatchState.
// Every dispatched file resolves through exactly one event here.
func (c *Coordinator) run(paths []string, precision mesh.Precision) {
	throttle := progress.NewThrottle(c.cfg.ProgressThrottle)

	c.notify(BatchProgress{Percent: 0, Message: fmt.Sprintf("importing %d files", len(paths))})

	for i, path := range paths {
		c.dispatchLoad(load.Task{
			FilePath:   path,
			TaskIndex:  i,
			TotalTasks: len(paths),
			Precision:  precision,
			Callback:   c.fileCallback(path),
			Context:    c.batchCtx,
		}, throttle)
	}

	for !c.batchDone() {
		select {
		case res := <-c.loadResults:
			c.handleLoaded(res, throttle)
		case res := <-c.procResults:
			c.handleProcessed(res, throttle)
		}
	}

	c.finalize(throttle)
}

// dispatchLoad queues one file for loading. A full queue is
// backpressure, not a failure: the coordinator drains completion
// events until a slot frees, so batches larger than the queue never
// lose files.
func (c *Coordinator) dispatchLoad(task load.Task, throttle *progress.Throttle) {
	for {
		if c.cancelled.Load() {
			c.resolveFailure(task.FilePath, mesh.NewDecodeError(mesh.KindCancelled, "%s", task.FilePath), throttle)
			return
		}
		err := c.loadPool.SubmitTask(task)
		if err == nil {
			return
		}
		if !errors.Is(err, load.ErrQueueFull) {
			c.resolveFailure(task.FilePath, mesh.WrapDecodeError(mesh.KindIoFailure, err, "dispatching %s", task.FilePath), throttle)
			return
		}
		select {
		case res := <-c.loadResults:
			c.handleLoaded(res, throttle)
		case res := <-c.procResults:
			c.handleProcessed(res, throttle)
		}
	}
}

// handleLoaded reacts to a load worker's completion event: dispatch a
// processing task on success, resolve the file on failure. Failed and
// cancelled files still get their terminal progress update.
func (c *Coordinator) handleLoaded(res load.Result, throttle *progress.Throttle) {
	path := res.Task.FilePath
	name := filepath.Base(path)

	if res.Err != nil {
		if res.Tracker != nil {
			res.Tracker.Complete(fmt.Sprintf("failed %s", name))
		}
		c.resolveFailure(path, res.Err, throttle)
		return
	}

	var fileSize int64
	if res.Tracker != nil {
		fileSize = res.Tracker.FileSize()
	}
	task := processing.Task{
		Mesh:          res.Mesh,
		FilePath:      path,
		FileSize:      fileSize,
		TaskIndex:     res.Task.TaskIndex,
		TotalTasks:    res.Task.TotalTasks,
		DecodeElapsed: res.Elapsed,
		Tracker:       res.Tracker,
	}

	for {
		if c.cancelled.Load() {
			// Loaded after cancellation: no further tasks are dispatched.
			if res.Tracker != nil {
				res.Tracker.Complete(fmt.Sprintf("cancelled %s", name))
			}
			c.resolveFailure(path, mesh.NewDecodeError(mesh.KindCancelled, "%s", path), throttle)
			return
		}
		err := c.procPool.SubmitTask(task)
		if err == nil {
			return
		}
		if !errors.Is(err, processing.ErrQueueFull) {
			if res.Tracker != nil {
				res.Tracker.Complete(fmt.Sprintf("failed %s", name))
			}
			c.resolveFailure(path, fmt.Errorf("dispatching processing for %s: %w", path, err), throttle)
			return
		}
		// Queue full: a completion has to free a slot first.
		c.handleProcessed(<-c.procResults, throttle)
	}
}

// handleProcessed reacts to a processing task's completion event
func (c *Coordinator) handleProcessed(res processing.Result, throttle *progress.Throttle) {
	c.mu.Lock()
	c.st.CompletedCount++
	if res.Err != nil {
		c.st.FailedCount++
	}
	delete(c.st.Pending, res.FilePath)
	c.mu.Unlock()

	if res.Err != nil {
		logger.Error("Import failed for %s: %v", res.FilePath, res.Err)
	} else {
		logger.Info("Imported %s (%d triangles)", res.Summary.Name, res.Summary.TriangleCount)
	}
	c.emitAggregate(throttle, false)
}

// resolveFailure counts a file as completed+failed without dispatching
// further work for it.
func (c *Coordinator) resolveFailure(path string, err error, throttle *progress.Throttle) {
	c.mu.Lock()
	c.st.CompletedCount++
	c.st.FailedCount++
	delete(c.st.Pending, path)
	c.mu.Unlock()

	if mesh.IsKind(err, mesh.KindCancelled) {
		logger.Debug("Skipped %s: batch cancelled", path)
	} else {
		logger.Error("Could not load %s: %v", path, err)
	}
	c.emitAggregate(throttle, false)
}

func (c *Coordinator) batchDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.CompletedCount >= c.st.TotalExpected
}

// finalize flushes the last throttled aggregate update, emits the
// batch summary and returns the coordinator to idle.
func (c *Coordinator) finalize(throttle *progress.Throttle) {
	c.mu.Lock()
	c.state = StateFinalizing
	total := int(c.st.TotalExpected)
	failed := int(c.st.FailedCount)
	c.mu.Unlock()

	c.emitAggregate(throttle, true)

	// Return to idle before publishing the summary, so a consumer
	// reacting to BatchFinished can start the next batch immediately.
	c.mu.Lock()
	c.batchCancel()
	c.state = StateIdle
	c.mu.Unlock()

	c.notify(BatchFinished{Total: total, Failed: failed})
}

// emitAggregate publishes the count-based batch percentage. The final
// update (force) bypasses the throttle so 100% is always observed.
func (c *Coordinator) emitAggregate(throttle *progress.Throttle, force bool) {
	c.mu.Lock()
	completed := c.st.CompletedCount
	failed := c.st.FailedCount
	total := c.st.TotalExpected
	c.mu.Unlock()

	if !force && !throttle.Allow() {
		return
	}

	percent := float64(completed) / float64(total) * 100
	msg := fmt.Sprintf("completed %d of %d files", completed, total)
	if failed > 0 {
		msg = fmt.Sprintf("%s (%d failed)", msg, failed)
	}
	c.notify(BatchProgress{Percent: percent, Message: msg})
}

// fileCallback adapts one file's tracker updates into best-effort
// notifications; delivery never blocks a worker.
func (c *Coordinator) fileCallback(path string) progress.Callback {
	return func(percent float64, message string) {
		select {
		case c.notifications <- FileProgress{Path: path, Percent: percent, Message: message}:
		default:
		}
	}
}

// notify delivers a must-see notification, blocking until the
// consumer takes it.
func (c *Coordinator) notify(n Notification) {
	c.notifications <- n
}

package load

import (
	"context"
	"sync"
	"time"

	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
)

// Task describes one file's load work within a batch.
type Task struct {
	FilePath   string
	TaskIndex  int
	TotalTasks int
	Precision  mesh.Precision

	// Callback receives this file's throttled progress updates.
	Callback progress.Callback

	// Context carries batch-level cancellation, checked between
	// chunks of large-file I/O.
	Context context.Context
}

// Result is the single completion event emitted per dispatched task.
// On failure Err is a *mesh.DecodeError and Mesh is nil.
type Result struct {
	Task    Task
	Mesh    *mesh.ParsedMesh
	Tracker *progress.Tracker
	Err     error
	Elapsed time.Duration
}

// WorkerPool manages the background readers that turn file paths into
// decoded meshes. Workers never touch shared batch state; they only
// emit one Result per task on the results channel.
type WorkerPool struct {
	workers    int
	jobQueue   chan Task
	results    chan<- Result
	throughput progress.Throughput
	throttle   time.Duration

	workerWg  sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	mu        sync.RWMutex
}

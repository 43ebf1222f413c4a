package processing

import (
	"context"
	"sync"
	"time"

	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/store"
	"github.com/meshvault/meshvault/internal/thumbnail"
)

// Task carries one decoded mesh through persistence and thumbnailing.
// The mesh is owned exclusively by this task from dispatch onward.
type Task struct {
	Mesh       *mesh.ParsedMesh
	FilePath   string
	FileSize   int64
	TaskIndex  int
	TotalTasks int

	DecodeElapsed time.Duration
	Tracker       *progress.Tracker
}

// Result is the single completion event emitted per task.
type Result struct {
	TaskIndex int
	FilePath  string
	Summary   store.ModelSummary
	Err       error
}

// WorkerPool manages the fixed-size pool that persists models and
// renders their thumbnails.
type WorkerPool struct {
	workers  int
	jobQueue chan Task
	results  chan<- Result

	store     store.Store
	renderer  *thumbnail.Renderer
	thumbsDir string

	workerWg  sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	mu        sync.RWMutex
}

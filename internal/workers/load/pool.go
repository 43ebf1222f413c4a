package load

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meshvault/meshvault/internal/progress"
)

// ErrQueueFull reports that the job queue has no free slot. Callers
// treat it as backpressure and retry once capacity frees up.
var ErrQueueFull = errors.New("load queue is full")

// NewWorkerPool creates a new load worker pool
func NewWorkerPool(maxWorkers, queueSize int, results chan<- Result, throughput progress.Throughput, throttle time.Duration) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:    maxWorkers,
		jobQueue:   make(chan Task, queueSize),
		results:    results,
		throughput: throughput,
		throttle:   throttle,
		ctx:        ctx,
		cancel:     cancel,
		isRunning:  false,
	}
}

// Start initializes and starts the load worker pool
func (p *WorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("load worker pool is already running")
	}

	for i := 0; i < p.workers; i++ {
		p.workerWg.Add(1)
		go p.worker(i)
	}

	p.isRunning = true
	return nil
}

// Stop gracefully shuts down the load worker pool
func (p *WorkerPool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return nil
	}

	p.cancel()
	close(p.jobQueue)
	p.workerWg.Wait()

	p.isRunning = false
	return nil
}

// IsRunning returns whether the worker pool is currently running
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// GetQueueSize returns the current number of queued tasks
func (p *WorkerPool) GetQueueSize() int {
	return len(p.jobQueue)
}

// SubmitTask queues one file for loading
func (p *WorkerPool) SubmitTask(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return fmt.Errorf("load worker pool is not running")
	}

	select {
	case p.jobQueue <- task:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("load worker pool is shutting down")
	default:
		return ErrQueueFull
	}
}

// worker drains the job queue until the pool shuts down
func (p *WorkerPool) worker(workerID int) {
	defer p.workerWg.Done()

	for {
		select {
		case task, ok := <-p.jobQueue:
			if !ok {
				return
			}
			start := time.Now()
			m, tracker, err := p.processTask(workerID, task)
			p.results <- Result{
				Task:    task,
				Mesh:    m,
				Tracker: tracker,
				Err:     err,
				Elapsed: time.Since(start),
			}

		case <-p.ctx.Done():
			return
		}
	}
}

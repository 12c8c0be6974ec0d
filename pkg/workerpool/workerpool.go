// Package workerpool bounds the number of goroutines concurrently
// handling long-lived tasks, such as the broker's per-connection
// session loops: rather than spawning one goroutine per accepted
// connection unconditionally, callers size the pool to the admission
// limit plus headroom and submit one task per session. Submit never
// drops a task on its own: when the queue is full it blocks until there
// is room or the pool is closed. A task still waiting in the queue when
// Close is called is not run.
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when trying to submit to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Config holds worker pool configuration.
type Config struct {
	// InitialSize is the number of workers. If 0, defaults to
	// runtime.NumCPU().
	InitialSize int
	// QueueSize is the size of the task submission queue. If 0,
	// defaults to InitialSize * 10.
	QueueSize int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()
	return &Config{InitialSize: numCPU, QueueSize: numCPU * 10}
}

// WorkerPool manages a fixed number of worker goroutines that all pull
// from one shared task queue, each running one task to completion
// before picking up the next.
type WorkerPool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	size      int
	ctx       context.Context
	cancel    context.CancelFunc
	closed    int32 // atomic flag
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config *Config) *WorkerPool {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialSize <= 0 {
		config.InitialSize = runtime.NumCPU()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = config.InitialSize * 10
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		taskQueue: make(chan Task, config.QueueSize),
		size:      config.InitialSize,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < config.InitialSize; i++ {
		pool.wg.Add(1)
		go pool.runWorker()
	}

	return pool
}

func (p *WorkerPool) runWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			if task != nil {
				_ = task.Execute(p.ctx)
			}
		}
	}
}

// Submit enqueues a task for the next free worker. It blocks while the
// queue is full and every worker is busy, and returns ErrPoolClosed if
// the pool has been closed in the meantime.
func (p *WorkerPool) Submit(task Task) error {
	if atomic.LoadInt32(&p.closed) == 1 {
		return ErrPoolClosed
	}
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	case p.taskQueue <- task:
		return nil
	}
}

// Size returns the number of workers in the pool.
func (p *WorkerPool) Size() int { return p.size }

// QueueDepth returns the current number of queued, undispatched tasks.
func (p *WorkerPool) QueueDepth() int { return len(p.taskQueue) }

// Close signals every worker to stop after its current task and
// unblocks any pending Submit calls. It does not wait for in-flight
// tasks to return; callers that need that guarantee should drain their
// own WaitGroup around Execute first.
func (p *WorkerPool) Close() error {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return ErrPoolClosed
	}
	p.cancel()
	return nil
}

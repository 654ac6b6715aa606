// Package pool implements a fixed-size worker pool. A ThreadPool pre-spawns
// its workers, funnels submitted jobs through one unbounded FIFO queue whose
// consuming side the workers share, and drains everything it accepted before
// Shutdown returns.
package pool

import (
	"sync"

	"github.com/bstardust/threadpool-server/internal/logger"
)

// Job is a single unit of deferred work. Ownership of any captured state
// transfers to the job at submission; the submitter must not keep mutable
// access unless that state is independently synchronized. The pool does not
// recover panicking jobs: a panic inside a Job terminates the process, the
// same way the pool would lose the worker in a thread-per-worker runtime.
type Job func()

// Option configures a ThreadPool at construction time.
type Option func(*ThreadPool)

// WithObserver replaces the default log-backed observer for worker events.
func WithObserver(obs Observer) Option {
	return func(p *ThreadPool) { p.obs = obs }
}

type worker struct {
	id   int
	done chan struct{}
}

// ThreadPool owns the producing side of the job queue and a fixed set of
// workers sharing its consuming side.
type ThreadPool struct {
	queue   *jobQueue
	workers []*worker
	obs     Observer

	mu     sync.Mutex
	closed bool
}

// New constructs a pool with size workers. It is the fail-fast entry point
// for trusted call sites: a size of zero is a precondition violation and
// panics. Callers that need to validate the count should use Build.
func New(size int, opts ...Option) *ThreadPool {
	if size <= 0 {
		panic("pool: number of threads equals zero")
	}
	return initPool(size, opts...)
}

// Build constructs a pool with size workers, returning a *CreationError
// instead of panicking when the count is invalid.
func Build(size int, opts ...Option) (*ThreadPool, error) {
	if size <= 0 {
		return nil, &CreationError{Reason: "number of threads equals zero"}
	}
	return initPool(size, opts...), nil
}

func initPool(size int, opts ...Option) *ThreadPool {
	p := &ThreadPool{
		queue:   newJobQueue(),
		workers: make([]*worker, 0, size),
		obs:     logObserver{},
	}

	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		w := &worker{id: i, done: make(chan struct{})}
		p.workers = append(p.workers, w)
		go p.run(w)
	}

	return p
}

// run is the worker loop: block for the next job, execute it to completion,
// repeat until the queue reports closed and drained.
func (p *ThreadPool) run(w *worker) {
	defer close(w.done)

	for {
		job, ok := p.queue.dequeue()
		if !ok {
			p.obs.WorkerEvent(w.id, EventShuttingDown)
			return
		}

		p.obs.WorkerEvent(w.id, EventJobStarted)
		job()
	}
}

// Submit enqueues a job for execution by some worker. It never blocks: the
// queue is unbounded. After Shutdown it returns ErrPoolClosed; the job was
// not accepted and will never run. A Submit racing Shutdown resolves to that
// error rather than to a silently dropped job.
func (p *ThreadPool) Submit(job Job) error {
	return p.queue.enqueue(job)
}

// Shutdown closes the producing side of the queue and waits for every worker
// to finish, in index order. All jobs accepted before the close are executed
// exactly once before Shutdown returns. Repeated calls are no-ops.
func (p *ThreadPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.queue.close()

	for _, w := range p.workers {
		logger.Debug("Shutting down worker %d", w.id)
		<-w.done
	}
}

// Size returns the configured worker count.
func (p *ThreadPool) Size() int {
	return len(p.workers)
}

// Pending returns the number of jobs accepted but not yet picked up.
func (p *ThreadPool) Pending() int {
	return p.queue.pending()
}

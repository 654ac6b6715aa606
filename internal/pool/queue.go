package pool

import (
	"sync"
)

// jobQueue is the FIFO handoff between submitters and workers. The producing
// side never blocks (the queue is unbounded); the consuming side is shared by
// all workers and serialized by the queue mutex, so each job is handed to
// exactly one worker.
type jobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// enqueue appends a job. It fails only after close, so a submit racing the
// pool's shutdown resolves to a clean error instead of a lost job.
func (q *jobQueue) enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrPoolClosed
	}

	q.jobs = append(q.jobs, job)
	q.cond.Signal()
	return nil
}

// dequeue blocks until a job is available or the queue is closed and drained.
// The second return value is false only for the latter, which is the normal
// termination signal for a worker. Jobs accepted before close are still
// handed out, so nothing enqueued ahead of a shutdown is dropped.
func (q *jobQueue) dequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.jobs) == 0 {
		return nil, false
	}

	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, true
}

// close marks the producing side as relinquished and wakes every blocked
// worker so each can drain remaining jobs and then observe the closed signal.
func (q *jobQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// pending reports the number of jobs waiting to be picked up.
func (q *jobQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

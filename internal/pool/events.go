package pool

import (
	"github.com/bstardust/threadpool-server/internal/logger"
)

// EventKind identifies a worker diagnostic event.
type EventKind int

const (
	// EventJobStarted is emitted when a worker picks up a job.
	EventJobStarted EventKind = iota
	// EventShuttingDown is emitted when a worker observes the closed queue
	// and exits its loop.
	EventShuttingDown
)

// Observer receives worker diagnostics. Events are informational only; they
// are not part of the pool's correctness contract. Implementations must be
// safe for concurrent use, since every worker emits through the same observer.
type Observer interface {
	WorkerEvent(workerID int, kind EventKind)
}

// logObserver is the default observer; it writes through the shared logger.
type logObserver struct{}

func (logObserver) WorkerEvent(workerID int, kind EventKind) {
	switch kind {
	case EventJobStarted:
		logger.Debug("Worker %d got a job; executing", workerID)
	case EventShuttingDown:
		logger.Info("Worker %d disconnected; shutting down", workerID)
	}
}

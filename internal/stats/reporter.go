package stats

import (
	"sync"
	"time"

	"github.com/bstardust/threadpool-server/internal/logger"
)

// Reporter tracks and reports request counts
type Reporter struct {
	mu             sync.Mutex
	served         int
	notFound       int
	errors         int
	startTime      time.Time
	lastUpdateTime time.Time
	updateInterval time.Duration
}

// New creates a new stats reporter
func New() *Reporter {
	return &Reporter{
		updateInterval: 10 * time.Second,
	}
}

// Start marks the beginning of a serving run
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.served = 0
	r.notFound = 0
	r.errors = 0
	r.startTime = time.Now()
	r.lastUpdateTime = time.Now()
}

// Served counts a successfully answered request
func (r *Reporter) Served() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.served++
	r.logProgress()
}

// NotFound counts a request answered with 404
func (r *Reporter) NotFound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notFound++
	r.logProgress()
}

// Error counts a request that failed before a response was written
func (r *Reporter) Error() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors++
	r.logProgress()
}

// Totals returns the current counters
func (r *Reporter) Totals() (served, notFound, errors int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.served, r.notFound, r.errors
}

// Finish logs a final summary for the run
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	uptime := time.Since(r.startTime)

	logger.Info("Server stopped: %d served, %d not found, %d errors in %s",
		r.served, r.notFound, r.errors, uptime.Round(time.Second))
}

// logProgress emits a rate-limited progress line; callers hold r.mu.
func (r *Reporter) logProgress() {
	now := time.Now()
	if now.Sub(r.lastUpdateTime) < r.updateInterval {
		return
	}

	r.lastUpdateTime = now
	total := r.served + r.notFound + r.errors

	logger.Info("Handled %d requests (%d served, %d not found, %d errors), uptime %s",
		total, r.served, r.notFound, r.errors, now.Sub(r.startTime).Round(time.Second))
}

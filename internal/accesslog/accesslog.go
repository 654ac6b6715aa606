package accesslog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bstardust/threadpool-server/internal/logger"
)

// Journal records handled requests and persists them as JSON so a run can be
// inspected after the fact. A Journal with an empty path is a no-op sink.
type Journal struct {
	mu           sync.Mutex
	path         string
	Requests     []Entry `json:"requests"`
	lastSaveTime time.Time
	saveInterval time.Duration
	batchCount   int
	cancelSave   context.CancelFunc
}

// Entry represents one handled request
type Entry struct {
	RequestLine string    `json:"request_line"`
	Status      int       `json:"status"`
	RemoteAddr  string    `json:"remote_addr"`
	Timestamp   time.Time `json:"timestamp"`
}

// New creates a new journal. An empty path disables persistence and
// recording entirely.
func New(path string) *Journal {
	j := &Journal{
		path:         path,
		saveInterval: 10 * time.Second,
	}
	if path != "" {
		logger.Info("Recording access log at %s", path)
	}
	return j
}

// Enabled reports whether the journal records anything.
func (j *Journal) Enabled() bool {
	return j.path != ""
}

// Load loads previously recorded entries from disk
func (j *Journal) Load() error {
	if !j.Enabled() {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := os.Stat(j.path); os.IsNotExist(err) {
		logger.Debug("No access log found at %s, starting fresh", j.path)
		return nil
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		return err
	}

	var loaded Journal
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}

	j.Requests = loaded.Requests
	logger.Info("Loaded access log with %d entries from %s", len(j.Requests), j.path)

	return nil
}

// StartPeriodicSave flushes the journal in the background until ctx is done.
func (j *Journal) StartPeriodicSave(ctx context.Context) {
	if !j.Enabled() {
		return
	}

	saveCtx, cancel := context.WithCancel(ctx)
	j.cancelSave = cancel

	ticker := time.NewTicker(j.saveInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := j.Save(); err != nil {
					logger.Error("Failed to save access log: %v", err)
				}
			case <-saveCtx.Done():
				logger.Debug("Stopping periodic access log save")
				return
			}
		}
	}()
}

// StopPeriodicSave stops the background flush and writes a final snapshot.
func (j *Journal) StopPeriodicSave() {
	if j.cancelSave != nil {
		j.cancelSave()
		j.cancelSave = nil
	}
	if err := j.Save(); err != nil {
		logger.Error("Failed to save access log on shutdown: %v", err)
	}
}

// Save writes the journal to disk
func (j *Journal) Save() error {
	if !j.Enabled() {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(j.path, data, 0644); err != nil {
		return err
	}

	j.lastSaveTime = time.Now()
	logger.Debug("Saved access log with %d entries to %s", len(j.Requests), j.path)
	return nil
}

// Record appends one handled request
func (j *Journal) Record(requestLine string, status int, remoteAddr string) {
	if !j.Enabled() {
		return
	}

	j.mu.Lock()
	j.Requests = append(j.Requests, Entry{
		RequestLine: requestLine,
		Status:      status,
		RemoteAddr:  remoteAddr,
		Timestamp:   time.Now(),
	})

	// Flush every 100 requests so a crash loses little.
	j.batchCount++
	flush := j.batchCount >= 100
	if flush {
		j.batchCount = 0
	}
	j.mu.Unlock()

	if flush {
		go func() {
			if err := j.Save(); err != nil {
				logger.Error("Failed to save access log: %v", err)
			}
		}()
	}
}

// Len returns the number of recorded entries
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Requests)
}

// CountStatus returns how many recorded entries carry the given status
func (j *Journal) CountStatus(status int) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := 0
	for _, e := range j.Requests {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Package health provides the health check endpoint and intake counters.
//
// This package implements:
//   - HTTP health check endpoint
//   - Submission and resolution counters fed by the complaint service
//   - Dependency checks (database, cache) run on each request
//   - Uptime monitoring
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"citizenhub/internal/complaint"
)

// checkTimeout bounds each dependency check during a health request.
const checkTimeout = 2 * time.Second

// Status represents the application health status.
//
// This is returned by the /health endpoint for monitoring tools.
//
// Fields:
//   - Status: "healthy", or "degraded" when a dependency check fails
//   - Uptime: How long the application has been running
//   - Submitted, Resolved: Complaints handled since start
//   - LastSubmissionTime: When the last complaint was filed, empty if none
//   - Checks: Dependency name → "ok" or the error message
type Status struct {
	Status             string            `json:"status"`
	Uptime             string            `json:"uptime"`
	Submitted          int64             `json:"submitted"`
	Resolved           int64             `json:"resolved"`
	LastSubmissionTime string            `json:"last_submission_time,omitempty"`
	Checks             map[string]string `json:"checks,omitempty"`
}

// CheckFunc checks one dependency.
type CheckFunc func(ctx context.Context) error

// Monitor tracks application health metrics.
//
// Monitor implements complaint.Notifier so the service reports its events
// directly; the callbacks only touch counters and never block.
//
// Thread-safety:
//   - All fields are protected by RWMutex
type Monitor struct {
	mu             sync.RWMutex
	startTime      time.Time
	submitted      int64
	resolved       int64
	lastSubmission time.Time
	checks         map[string]CheckFunc
}

// NewMonitor creates a new health monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime: time.Now(),
		checks:    make(map[string]CheckFunc),
	}
}

// AddCheck registers a dependency check under name.
func (m *Monitor) AddCheck(name string, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
}

// ComplaintSubmitted counts a new complaint.
func (m *Monitor) ComplaintSubmitted(complaint.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted++
	m.lastSubmission = time.Now()
}

// ComplaintResolved counts a resolution.
func (m *Monitor) ComplaintResolved(complaint.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved++
}

// GetStatus returns the current health status, running every check.
func (m *Monitor) GetStatus(ctx context.Context) Status {
	m.mu.RLock()
	status := Status{
		Status:    "healthy",
		Uptime:    time.Since(m.startTime).Round(time.Second).String(),
		Submitted: m.submitted,
		Resolved:  m.resolved,
	}
	if !m.lastSubmission.IsZero() {
		status.LastSubmissionTime = m.lastSubmission.Format("2006-01-02 15:04:05")
	}
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(m.checks))
	for k, v := range m.checks {
		checks[k] = v
	}
	m.mu.RUnlock()

	if len(names) == 0 {
		return status
	}

	// checks may block on the network; run them outside the lock
	sort.Strings(names)
	status.Checks = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := checks[name](checkCtx)
		cancel()
		if err != nil {
			status.Checks[name] = err.Error()
			status.Status = "degraded"
			continue
		}
		status.Checks[name] = "ok"
	}
	return status
}

// Handler serves GET /health.
//
// Example response:
//
//	{
//	  "status": "healthy",
//	  "uptime": "1h2m3s",
//	  "submitted": 42,
//	  "resolved": 17,
//	  "last_submission_time": "2026-01-15 10:30:00",
//	  "checks": {"database": "ok"}
//	}
//
// A degraded status is still answered with 200; the service can take
// complaints on a CSV store even while the cache is away.
func (m *Monitor) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := m.GetStatus(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	})
}

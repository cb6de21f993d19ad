package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"citizenhub/internal/complaint"
)

func TestMonitorCounts(t *testing.T) {
	m := NewMonitor()
	m.ComplaintSubmitted(complaint.Record{ID: 1})
	m.ComplaintSubmitted(complaint.Record{ID: 2})
	m.ComplaintResolved(complaint.Record{ID: 1})

	status := m.GetStatus(context.Background())
	if status.Status != "healthy" {
		t.Errorf("expected healthy but got %s", status.Status)
	}
	if status.Submitted != 2 || status.Resolved != 1 {
		t.Errorf("expected 2 submitted and 1 resolved but got %d and %d", status.Submitted, status.Resolved)
	}
	if status.LastSubmissionTime == "" {
		t.Error("expected last submission time to be set")
	}
}

func TestMonitorDegradedOnFailingCheck(t *testing.T) {
	m := NewMonitor()
	m.AddCheck("database", func(context.Context) error { return nil })
	m.AddCheck("cache", func(context.Context) error { return errors.New("connection refused") })

	status := m.GetStatus(context.Background())
	if status.Status != "degraded" {
		t.Errorf("expected degraded but got %s", status.Status)
	}
	if status.Checks["database"] != "ok" {
		t.Errorf("expected database ok but got %q", status.Checks["database"])
	}
	if status.Checks["cache"] != "connection refused" {
		t.Errorf("expected cache error but got %q", status.Checks["cache"])
	}
}

func TestHandler(t *testing.T) {
	m := NewMonitor()
	m.ComplaintSubmitted(complaint.Record{ID: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json but got %s", ct)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("expected valid JSON but got: %v", err)
	}
	if status.Submitted != 1 {
		t.Errorf("expected 1 submitted but got %d", status.Submitted)
	}
	if status.Checks != nil {
		t.Errorf("expected no checks but got %v", status.Checks)
	}
}

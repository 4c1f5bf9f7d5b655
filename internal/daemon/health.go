package daemon

import (
	"encoding/json"
	"net/http"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
	"git.home.luguber.info/inful/pillarsync/internal/version"
)

// HealthStatus represents the overall health of the daemon
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// LastRun summarises the most recent sync.
type LastRun struct {
	RunID     string                `json:"run_id"`
	Trigger   string                `json:"trigger"`
	Status    string                `json:"status"`
	StartedAt time.Time             `json:"started_at"`
	Files     eventstore.FileCounts `json:"files"`
	Error     string                `json:"error,omitempty"`
}

// HealthResponse is the body served at the health path.
type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Daemon    Status       `json:"daemon"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Version   string       `json:"version"`
	Runs      int          `json:"runs"`
	LastRun   *LastRun     `json:"last_run,omitempty"`
}

// Health reports liveness plus the outcome of the latest run. A run with
// file errors, or a failed run, degrades health; a daemon that is not
// running is unhealthy.
func (d *Daemon) Health() HealthResponse {
	d.mu.RLock()
	defer d.mu.RUnlock()

	resp := HealthResponse{
		Status:    HealthStatusHealthy,
		Daemon:    d.status,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Runs:      d.runs,
	}
	if !d.startTime.IsZero() {
		resp.Uptime = time.Since(d.startTime).Round(time.Second).String()
	}
	if d.last != nil {
		resp.LastRun = &LastRun{
			RunID:     d.last.RunID,
			Trigger:   d.last.Trigger,
			Status:    d.last.Status(),
			StartedAt: d.last.StartedAt,
			Files:     d.last.Totals(),
		}
		if resp.LastRun.Status == eventstore.StatusPartial {
			resp.Status = HealthStatusDegraded
		}
	}
	if d.lastErr != nil {
		resp.Status = HealthStatusDegraded
		if resp.LastRun == nil {
			resp.LastRun = &LastRun{}
		}
		resp.LastRun.Error = d.lastErr.Error()
	}
	if d.status != StatusRunning {
		resp.Status = HealthStatusUnhealthy
	}
	return resp
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := d.Health()
	w.Header().Set("Content-Type", "application/json")
	if resp.Status == HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (d *Daemon) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+d.opts.HealthPath, d.handleHealth)
	if d.opts.Metrics != nil {
		mux.Handle("GET "+d.opts.MetricsPath, d.opts.Metrics)
	}
	return mux
}

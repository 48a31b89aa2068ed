package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// Probe reports the state of an optional component. A failing probe degrades
// the service without taking it out of rotation.
type Probe func(ctx context.Context) (map[string]any, error)

type HealthHandler struct {
	db     *sql.DB
	probes map[string]Probe
}

func NewHealthHandler(db *sql.DB, probes map[string]Probe) *HealthHandler {
	return &HealthHandler{db: db, probes: probes}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler pings the database and runs every registered probe.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.probes)+1),
	}

	db := h.checkDatabase(ctx)
	resp.Components["database"] = db

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := runProbe(ctx, h.probes[name])
		if entry.Status != HealthHealthy {
			entry.Status = HealthDegraded
			resp.Status = HealthDegraded
		}
		resp.Components[name] = entry
	}

	statusCode := http.StatusOK
	if db.Status == HealthUnhealthy {
		resp.Status = HealthUnhealthy
		statusCode = http.StatusServiceUnavailable
	}
	resp.CheckedAt = time.Now()
	writeHealth(w, statusCode, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	if h.db == nil {
		return CheckEntry{Status: HealthUnhealthy, Message: "database not configured", CheckedAt: time.Now()}
	}
	return runProbe(ctx, func(ctx context.Context) (map[string]any, error) {
		if err := h.db.PingContext(ctx); err != nil {
			return nil, err
		}
		stats := h.db.Stats()
		return map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}, nil
	})
}

func runProbe(ctx context.Context, probe Probe) CheckEntry {
	start := time.Now()
	details, err := probe(ctx)
	entry := CheckEntry{
		Status:     HealthHealthy,
		Details:    details,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

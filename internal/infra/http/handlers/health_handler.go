package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	Checks    map[string]HealthCheck
	Backend   string
	StartTime time.Time
	Timeout   time.Duration
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Backend      string            `json:"backend"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

const Version = "1.0.0"

func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{
		Checks:    make(map[string]HealthCheck),
		Backend:   backend,
		StartTime: time.Now(),
		Timeout:   3 * time.Second,
	}
}

// Register adds a dependency check; a nil check is reported as "not configured".
func (h *HealthHandler) Register(name string, check HealthCheck) {
	h.Checks[name] = check
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]string, len(names))
	status := "healthy"
	for _, name := range names {
		check := h.Checks[name]
		if check == nil {
			deps[name] = "not configured"
			continue
		}
		if err := check(ctx); err != nil {
			deps[name] = fmt.Sprintf("unhealthy: %v", err)
			status = "degraded"
			continue
		}
		deps[name] = "healthy"
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      Version,
		Backend:      h.Backend,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}

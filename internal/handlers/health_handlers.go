package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Dependency is a backing service checked by the health endpoints. Only
// critical dependencies gate readiness.
type Dependency struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandlers handles health check and readiness endpoints
type HealthHandlers struct {
	version      string
	startedAt    time.Time
	dependencies []Dependency
}

func NewHealthHandlers(version string, dependencies ...Dependency) *HealthHandlers {
	return &HealthHandlers{
		version:      version,
		startedAt:    time.Now(),
		dependencies: dependencies,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck reports every dependency. It always answers 200 so the
// process is not restarted for a degraded cache or object store.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health, _ := h.checkAll(c.Request().Context())
	return c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Data: health, Message: health.Status})
}

// ReadinessCheck answers 503 while a critical dependency is unavailable
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	health, ready := h.checkAll(c.Request().Context())
	if !ready {
		return c.JSON(http.StatusServiceUnavailable, Envelope{
			Code:    http.StatusServiceUnavailable,
			Data:    health,
			Message: "critical services unavailable",
		})
	}
	return c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Data: health, Message: "ready"})
}

func (h *HealthHandlers) checkAll(ctx context.Context) (*HealthStatus, bool) {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.dependencies)),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Version:   h.version,
	}

	ready := true
	for _, dep := range h.dependencies {
		checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := dep.Check(checkCtx)
		cancel()

		if err != nil {
			health.Services[dep.Name] = "unhealthy"
			health.Status = "degraded"
			if dep.Critical {
				ready = false
			}
			continue
		}
		health.Services[dep.Name] = "healthy"
	}
	return health, ready
}

package server

import (
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp   ComponentStatus = "up"
	ComponentStatusDown ComponentStatus = "down"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
	Details   interface{}     `json:"details,omitempty"`
}

// StorageDetails provides additional storage health information
type StorageDetails struct {
	Directory string `json:"directory"`
	Files     int64  `json:"files"`
	UsedBytes int64  `json:"used_bytes"`
}

// HandleHealth reports whether the upload directory can be written.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth()

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, health)
}

func (s *Server) checkHealth() Health {
	storage := s.checkStorageHealth()

	health := Health{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   s.build.Version,
		Components: map[string]ComponentHealth{
			"storage": storage,
		},
	}
	if storage.Status == ComponentStatusDown {
		health.Status = HealthStatusUnhealthy
	}

	return health
}

// checkStorageHealth probes the upload directory with a throwaway file.
func (s *Server) checkStorageHealth() ComponentHealth {
	start := time.Now()

	if err := s.store.Probe(); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "storage probe failed: " + err.Error(),
		}
	}

	latency := time.Since(start).Milliseconds()

	details := StorageDetails{Directory: s.store.Dir()}
	if files, used, err := s.store.Usage(); err == nil {
		details.Files = files
		details.UsedBytes = used
	}

	return ComponentHealth{
		Status:    ComponentStatusUp,
		Message:   "storage writable",
		LatencyMs: float64(latency),
		Details:   details,
	}
}

package services

import (
	"runtime"
	"time"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthService reports liveness information.
type HealthService struct {
	startedAt time.Time
}

// NewHealthService creates a health service anchored at now.
func NewHealthService() *HealthService {
	return &HealthService{startedAt: time.Now()}
}

// Status returns the current health snapshot.
func (s *HealthService) Status() HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
	}
}

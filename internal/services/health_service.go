package services

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"claimsheet/internal/exporter"
	"claimsheet/internal/table"
)

// Check reports whether one dependency is ready. A nil error means ready.
type Check func(ctx context.Context) error

// HealthService provides health check functionality
type HealthService struct {
	version   string
	commit    string
	buildTime string
	checks    map[string]Check
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. Readiness runs every registered check.
func NewHealthService(version, commit, buildTime string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		commit:    commit,
		buildTime: buildTime,
		checks:    make(map[string]Check),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Register adds a named readiness check. It is not safe to call once the
// service is serving requests.
func (hs *HealthService) Register(name string, check Check) {
	hs.checks[name] = check
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every registered check; any failure makes the service not_ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}

	names := make([]string, 0, len(hs.checks))
	for name := range hs.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := hs.checks[name](ctx); err != nil {
			status.Status = "not_ready"
			status.Services[name] = ServiceHealth{Status: "not_ready", Message: err.Error()}
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", name),
				slog.String("error", err.Error()))
			continue
		}
		status.Services[name] = ServiceHealth{Status: "ready"}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.commit != "" {
		result["commit"] = hs.commit
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// WorkbookCheck verifies that a one-cell workbook can be written.
func WorkbookCheck(ctx context.Context) error {
	probe := table.New("probe", []string{"ok"}, [][]any{{1}})
	_, err := exporter.Write([]exporter.Sheet{{Name: "probe", Blocks: []exporter.Block{{Table: probe}}}})
	return err
}

package http

import (
	"context"

	"claimsheet/internal/exporter"
	"claimsheet/internal/services"
)

// ClaimsServiceInterface defines the pipeline operations used by ClaimsHandler
type ClaimsServiceInterface interface {
	Template(ctx context.Context, req services.TemplateRequest) (*services.Run, error)
	Report(ctx context.Context, req services.ReportRequest) (*services.Run, error)
	Export(ctx context.Context, run *services.Run, filename string) (*exporter.Artifact, error)
}

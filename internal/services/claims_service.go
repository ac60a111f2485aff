package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apierrors "claimsheet/internal/errors"
	"claimsheet/internal/exporter"
	"claimsheet/internal/infrastructure"
	"claimsheet/internal/loader"
	"claimsheet/internal/pipeline"
	"claimsheet/internal/table"
)

// Pipeline names used in logs, spans and metrics.
const (
	PipelineTemplate = "template"
	PipelineReport   = "report"
)

// Upload field names.
const (
	FieldClaims     = "claims"
	FieldClaimRatio = "claim_ratio"
	FieldBenefits   = "benefits"
)

// Upload is one user-supplied file. Content is read once.
type Upload struct {
	Field    string
	Filename string
	Content  io.Reader
}

func (u *Upload) missing() bool {
	return u == nil || u.Content == nil
}

// TemplateRequest carries the Pipeline A upload.
type TemplateRequest struct {
	Claims *Upload
}

// ReportRequest carries the three Pipeline B uploads.
type ReportRequest struct {
	Claims     *Upload
	ClaimRatio *Upload
	Benefits   *Upload
}

// Run is the outcome of either pipeline, ready to preview or export.
type Run struct {
	Pipeline    string
	Output      *table.Table
	Sheets      []exporter.Sheet
	Summary     pipeline.Summary
	Diagnostics pipeline.Diagnostics
	Counts      pipeline.Counts
}

// ClaimsService decodes uploads, runs the pipelines and builds workbooks.
// Every request is independent; the service holds no per-request state.
type ClaimsService struct {
	tracer          trace.Tracer
	metrics         *infrastructure.PipelineMetrics
	logger          *slog.Logger
	defaultFilename string
}

// NewClaimsService creates a claims service. metrics may be nil.
func NewClaimsService(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger, defaultFilename string) *ClaimsService {
	return &ClaimsService{
		tracer:          tracer,
		metrics:         metrics,
		logger:          logger.With(slog.String("component", "claims_service")),
		defaultFilename: defaultFilename,
	}
}

// Template runs Pipeline A over the claim upload.
func (s *ClaimsService) Template(ctx context.Context, req TemplateRequest) (run *Run, err error) {
	if req.Claims.missing() {
		return nil, apierrors.MissingUploads(FieldClaims)
	}

	ctx, span := s.tracer.Start(ctx, "claims.template")
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, PipelineTemplate, start, run, err) }()

	claims, err := s.decode(ctx, req.Claims)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := pipeline.RunTemplate(claims, pipeline.WithObserver(s.observer(ctx, PipelineTemplate)))
	if err != nil {
		return nil, fmt.Errorf("template pipeline: %w", err)
	}

	return &Run{
		Pipeline:    PipelineTemplate,
		Output:      result.Output,
		Sheets:      result.Sheets(),
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
		Counts:      result.Counts,
	}, nil
}

// Report runs Pipeline B. The three uploads are decoded concurrently; every
// missing upload is reported before any work starts.
func (s *ClaimsService) Report(ctx context.Context, req ReportRequest) (run *Run, err error) {
	var missing []string
	if req.Claims.missing() {
		missing = append(missing, FieldClaims)
	}
	if req.ClaimRatio.missing() {
		missing = append(missing, FieldClaimRatio)
	}
	if req.Benefits.missing() {
		missing = append(missing, FieldBenefits)
	}
	if len(missing) > 0 {
		return nil, apierrors.MissingUploads(missing...)
	}

	ctx, span := s.tracer.Start(ctx, "claims.report")
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, PipelineReport, start, run, err) }()

	var in pipeline.ReportInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Claims, err = s.decode(gctx, req.Claims)
		return err
	})
	g.Go(func() (err error) {
		in.ClaimRatio, err = s.decode(gctx, req.ClaimRatio)
		return err
	})
	g.Go(func() (err error) {
		in.Benefits, err = s.decode(gctx, req.Benefits)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := pipeline.RunReport(in, pipeline.WithObserver(s.observer(ctx, PipelineReport)))
	if err != nil {
		return nil, fmt.Errorf("report pipeline: %w", err)
	}

	return &Run{
		Pipeline:    PipelineReport,
		Output:      result.Claims,
		Sheets:      result.Sheets(),
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
		Counts:      result.Counts,
	}, nil
}

// Export writes run into a workbook named after filename, falling back to the
// configured default name.
func (s *ClaimsService) Export(ctx context.Context, run *Run, filename string) (*exporter.Artifact, error) {
	ctx, span := s.tracer.Start(ctx, "claims.export",
		trace.WithAttributes(attribute.String("pipeline", run.Pipeline)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := exporter.Write(run.Sheets)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, apierrors.ExportFailed(err)
	}
	artifact := &exporter.Artifact{
		Name: exporter.FileName(filename, s.defaultFilename),
		Data: buf.Bytes(),
	}

	s.metrics.RecordExport(ctx, run.Pipeline, len(artifact.Data))
	span.SetAttributes(
		attribute.String("export.name", artifact.Name),
		attribute.Int("export.bytes", len(artifact.Data)),
	)
	s.logger.InfoContext(ctx, "workbook exported",
		slog.String("pipeline", run.Pipeline),
		slog.String("filename", artifact.Name),
		slog.Int("bytes", len(artifact.Data)),
		slog.Int("sheets", len(run.Sheets)),
	)
	return artifact, nil
}

func (s *ClaimsService) decode(ctx context.Context, u *Upload) (*table.Table, error) {
	ctx, span := s.tracer.Start(ctx, "claims.decode", trace.WithAttributes(
		attribute.String("upload.field", u.Field),
		attribute.String("upload.filename", u.Filename),
	))
	defer span.End()

	format, err := loader.DetectFormat(u.Filename)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	data, err := io.ReadAll(u.Content)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to read %s upload: %w", u.Field, err)
	}
	s.metrics.RecordUpload(ctx, string(format), len(data))

	t, err := loader.Decode(u.Field, format, data)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("upload.rows", t.Len()), attribute.Int("upload.columns", len(t.Columns)))
	s.logger.DebugContext(ctx, "upload decoded",
		slog.String("field", u.Field),
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)),
		slog.Int("rows", t.Len()),
	)
	return t, nil
}

func (s *ClaimsService) finish(ctx context.Context, name string, start time.Time, run *Run, err error) {
	s.metrics.RecordRun(ctx, name, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "pipeline run failed",
			slog.String("pipeline", name),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, d := range run.Diagnostics {
		s.metrics.RecordDiagnostic(ctx, name, string(d.Kind))
		s.logger.WarnContext(ctx, "data quality warning",
			slog.String("pipeline", name),
			slog.String("kind", string(d.Kind)),
			slog.String("table", d.Table),
			slog.String("column", d.Column),
			slog.Int("values", len(d.Values)),
		)
	}
	s.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("pipeline", name),
		slog.Int("loaded", run.Counts.Loaded),
		slog.Int("retained", run.Counts.Retained),
		slog.Int("duplicates", run.Counts.Duplicates),
		slog.Int("output", run.Counts.Output),
		slog.Duration("duration", time.Since(start)),
	)
}

func (s *ClaimsService) observer(ctx context.Context, name string) pipeline.Observer {
	return &stageObserver{ctx: ctx, pipeline: name, metrics: s.metrics, logger: s.logger}
}

// stageObserver forwards stage completions to metrics, the active span and
// the debug log.
type stageObserver struct {
	ctx      context.Context
	pipeline string
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

func (o *stageObserver) StageDone(stage pipeline.Stage, tableName string, rowsIn, rowsOut int) {
	o.metrics.RecordStage(o.ctx, o.pipeline, string(stage), tableName, rowsIn, rowsOut)
	infrastructure.AddSpanEvent(o.ctx, "stage."+string(stage),
		attribute.String("table", tableName),
		attribute.Int("rows_in", rowsIn),
		attribute.Int("rows_out", rowsOut),
	)
	o.logger.DebugContext(o.ctx, "stage completed",
		slog.String("pipeline", o.pipeline),
		slog.String("stage", string(stage)),
		slog.String("table", tableName),
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", rowsOut),
	)
}

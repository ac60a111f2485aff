package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the service's instruments.
type PipelineMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	RunsTotal     metric.Int64Counter
	RunDuration   metric.Float64Histogram
	RunErrors     metric.Int64Counter
	StageRowsIn   metric.Int64Counter
	StageRowsOut  metric.Int64Counter
	Diagnostics   metric.Int64Counter
	UploadBytes   metric.Int64Counter
	ExportsTotal  metric.Int64Counter
	ExportedBytes metric.Int64Counter
}

// CreatePipelineMetrics registers the instruments on meter.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.RunsTotal, err = meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs"),
	); err != nil {
		return nil, err
	}
	if m.RunDuration, err = meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.RunErrors, err = meter.Int64Counter(
		"pipeline_errors_total",
		metric.WithDescription("Total number of failed pipeline runs"),
	); err != nil {
		return nil, err
	}
	if m.StageRowsIn, err = meter.Int64Counter(
		"pipeline_stage_rows_in_total",
		metric.WithDescription("Rows entering each pipeline stage"),
	); err != nil {
		return nil, err
	}
	if m.StageRowsOut, err = meter.Int64Counter(
		"pipeline_stage_rows_out_total",
		metric.WithDescription("Rows leaving each pipeline stage"),
	); err != nil {
		return nil, err
	}
	if m.Diagnostics, err = meter.Int64Counter(
		"pipeline_diagnostics_total",
		metric.WithDescription("Data-quality diagnostics raised, by kind"),
	); err != nil {
		return nil, err
	}
	if m.UploadBytes, err = meter.Int64Counter(
		"upload_bytes_total",
		metric.WithDescription("Bytes of uploaded spreadsheets decoded"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter(
		"workbook_exports_total",
		metric.WithDescription("Total number of workbooks exported"),
	); err != nil {
		return nil, err
	}
	if m.ExportedBytes, err = meter.Int64Counter(
		"workbook_export_bytes_total",
		metric.WithDescription("Bytes of exported workbooks"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun records one pipeline run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, pipelineName string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
		m.RunErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("pipeline", pipelineName)))
	}
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipelineName),
		attribute.String("status", status),
	)
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordStage records the row flow through a stage.
func (m *PipelineMetrics) RecordStage(ctx context.Context, pipelineName, stage, tableName string, rowsIn, rowsOut int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipelineName),
		attribute.String("stage", stage),
		attribute.String("table", tableName),
	)
	m.StageRowsIn.Add(ctx, int64(rowsIn), attrs)
	m.StageRowsOut.Add(ctx, int64(rowsOut), attrs)
}

// RecordDiagnostic counts one diagnostic.
func (m *PipelineMetrics) RecordDiagnostic(ctx context.Context, pipelineName, kind string) {
	if m == nil {
		return
	}
	m.Diagnostics.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipelineName),
		attribute.String("kind", kind),
	))
}

// RecordUpload counts decoded upload bytes.
func (m *PipelineMetrics) RecordUpload(ctx context.Context, format string, size int) {
	if m == nil {
		return
	}
	m.UploadBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("format", format)))
}

// RecordExport counts an exported workbook.
func (m *PipelineMetrics) RecordExport(ctx context.Context, pipelineName string, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("pipeline", pipelineName))
	m.ExportsTotal.Add(ctx, 1, attrs)
	m.ExportedBytes.Add(ctx, int64(size), attrs)
}

// RecordHTTPRequest records a finished HTTP request.
func (m *PipelineMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

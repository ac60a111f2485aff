package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	apierrors "claimsheet/internal/errors"
	"claimsheet/internal/exporter"
	"claimsheet/internal/middleware"
	"claimsheet/internal/pipeline"
	"claimsheet/internal/services"
	api "claimsheet/pkg/contracts/api/v1"
)

// defaultMaxMemory is the part of a multipart form kept in memory; the rest
// spills to temporary files.
const defaultMaxMemory = 8 << 20

// ClaimsHandler serves the upload endpoints of both pipelines
type ClaimsHandler struct {
	service      ClaimsServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	previewRows  int
}

// NewClaimsHandler creates a claims handler. previewRows bounds the rows
// returned by the preview endpoints.
func NewClaimsHandler(service ClaimsServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, previewRows int) *ClaimsHandler {
	return &ClaimsHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "claims_handler")),
		errorHandler: errorHandler,
		previewRows:  previewRows,
	}
}

// Routes returns the pipeline routes
func (h *ClaimsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/template", func(r chi.Router) {
		r.Post("/preview", h.PreviewTemplate)
		r.Post("/export", h.ExportTemplate)
	})
	r.Route("/report", func(r chi.Router) {
		r.Post("/preview", h.PreviewReport)
		r.Post("/export", h.ExportReport)
	})

	return r
}

// PreviewTemplate handles POST /api/template/preview
func (h *ClaimsHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runTemplate(w, r)
	if !ok {
		return
	}
	h.preview(w, r, run)
}

// ExportTemplate handles POST /api/template/export
func (h *ClaimsHandler) ExportTemplate(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runTemplate(w, r)
	if !ok {
		return
	}
	h.export(w, r, run)
}

// PreviewReport handles POST /api/report/preview
func (h *ClaimsHandler) PreviewReport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runReport(w, r)
	if !ok {
		return
	}
	h.preview(w, r, run)
}

// ExportReport handles POST /api/report/export
func (h *ClaimsHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runReport(w, r)
	if !ok {
		return
	}
	h.export(w, r, run)
}

func (h *ClaimsHandler) runTemplate(w http.ResponseWriter, r *http.Request) (*services.Run, bool) {
	uploads, ok := h.parseUploads(w, r, api.FieldClaims)
	if !ok {
		return nil, false
	}
	defer uploads.close()

	run, err := h.service.Template(r.Context(), services.TemplateRequest{
		Claims: uploads.get(api.FieldClaims),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return run, true
}

func (h *ClaimsHandler) runReport(w http.ResponseWriter, r *http.Request) (*services.Run, bool) {
	uploads, ok := h.parseUploads(w, r, api.FieldClaims, api.FieldClaimRatio, api.FieldBenefits)
	if !ok {
		return nil, false
	}
	defer uploads.close()

	run, err := h.service.Report(r.Context(), services.ReportRequest{
		Claims:     uploads.get(api.FieldClaims),
		ClaimRatio: uploads.get(api.FieldClaimRatio),
		Benefits:   uploads.get(api.FieldBenefits),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return run, true
}

type uploadSet struct {
	files   map[string]*services.Upload
	closers []io.Closer
}

func (u *uploadSet) get(field string) *services.Upload {
	return u.files[field]
}

func (u *uploadSet) close() {
	for _, c := range u.closers {
		c.Close()
	}
}

// parseUploads reads the multipart form and opens the named file fields.
// Absent fields are left nil so the service can report all of them at once.
func (h *ClaimsHandler) parseUploads(w http.ResponseWriter, r *http.Request, fields ...string) (*uploadSet, bool) {
	if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
		} else {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return nil, false
	}

	set := &uploadSet{files: make(map[string]*services.Upload, len(fields))}
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			set.close()
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return nil, false
		}
		set.closers = append(set.closers, file)
		set.files[field] = &services.Upload{Field: field, Filename: header.Filename, Content: file}
	}
	return set, true
}

func (h *ClaimsHandler) preview(w http.ResponseWriter, r *http.Request, run *services.Run) {
	head := run.Output.Head(h.previewRows)
	rows := make([][]any, len(head.Rows))
	for i, row := range head.Rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = jsonCell(v)
		}
		rows[i] = out
	}

	render.JSON(w, r, api.PreviewResponse{
		Pipeline:    run.Pipeline,
		Columns:     run.Output.Columns,
		Rows:        rows,
		TotalRows:   run.Output.Len(),
		Summary:     toSummary(run.Summary),
		Diagnostics: toDiagnostics(run.Diagnostics),
		Counts:      api.Counts(run.Counts),
	})
}

func (h *ClaimsHandler) export(w http.ResponseWriter, r *http.Request, run *services.Run) {
	form := api.ExportForm{Filename: r.FormValue(api.FieldFilename)}
	if err := h.validator.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	artifact, err := h.service.Export(r.Context(), run, form.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if len(run.Diagnostics) > 0 {
		warnings, err := json.Marshal(headerDiagnostics(run.Diagnostics))
		if err == nil {
			w.Header().Set(api.WarningsHeader, string(warnings))
		}
	}
	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(artifact.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write workbook",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

func jsonCell(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return json.Number(x.String())
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

func toSummary(s pipeline.Summary) api.Summary {
	whole := s.Whole()
	return api.Summary{
		Claims:      s.Claims,
		Billed:      json.Number(s.Billed.String()),
		Accepted:    json.Number(s.Accepted.String()),
		ExcessTotal: json.Number(s.ExcessTotal.String()),
		Unpaid:      json.Number(s.Unpaid.String()),
		Whole: api.WholeTotals{
			Billed:      json.Number(whole.Billed.String()),
			Accepted:    json.Number(whole.Accepted.String()),
			ExcessTotal: json.Number(whole.ExcessTotal.String()),
			Unpaid:      json.Number(whole.Unpaid.String()),
		},
	}
}

func toDiagnostics(diags pipeline.Diagnostics) []api.Diagnostic {
	out := make([]api.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = api.Diagnostic{
			Kind:    string(d.Kind),
			Table:   d.Table,
			Column:  d.Column,
			Values:  d.Values,
			Count:   d.Count,
			Message: d.Message,
		}
	}
	return out
}

// maxHeaderValues caps the sample values per diagnostic in WarningsHeader.
// The preview response carries the full lists.
const maxHeaderValues = 10

func headerDiagnostics(diags pipeline.Diagnostics) []api.Diagnostic {
	out := toDiagnostics(diags)
	for i := range out {
		if len(out[i].Values) > maxHeaderValues {
			out[i].Values = out[i].Values[:maxHeaderValues:maxHeaderValues]
		}
	}
	return out
}

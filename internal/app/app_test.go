package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/config"
	apierrors "claimsheet/internal/errors"
	"claimsheet/internal/exporter"
	customMiddleware "claimsheet/internal/middleware"
	"claimsheet/internal/shared/testutil"
	api "claimsheet/pkg/contracts/api/v1"
)

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)

	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.OTelProviders.Shutdown(context.Background()) })
	return a
}

func claimsUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(api.FieldClaims, "claims.csv")
	require.NoError(t, err)
	_, err = part.Write(testutil.TemplateClaimsCSV(t,
		testutil.TemplateClaim("C1", nil),
		testutil.TemplateClaim("C2", nil),
	))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	a := newTestApp(t, nil)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Claims)
	assert.NotNil(t, a.Health)
	assert.NotNil(t, a.Metrics)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Equal(t, a.Config.Server.WriteTimeout, a.Server.WriteTimeout)
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantContent string
	}{
		{name: "index", path: "/", wantStatus: http.StatusOK, wantContent: "text/html"},
		{name: "health", path: "/api/health", wantStatus: http.StatusOK, wantContent: "application/json"},
		{name: "ready", path: "/api/health/ready", wantStatus: http.StatusOK, wantContent: "application/json"},
		{name: "live", path: "/api/health/live", wantStatus: http.StatusOK, wantContent: "application/json"},
		{name: "version", path: "/api/version", wantStatus: http.StatusOK, wantContent: "application/json"},
		{name: "unknown", path: "/nope", wantStatus: http.StatusNotFound, wantContent: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(a, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.wantContent),
				"content type %q", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get(customMiddleware.RequestIDHeader))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestTemplateExportThroughRouter(t *testing.T) {
	a := newTestApp(t, nil)

	body, contentType := claimsUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/template/export", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(a, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, exporter.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Transformed_Claim_Data.xlsx")

	metrics := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "pipeline_runs_total")
	assert.Contains(t, metrics.Body.String(), "workbook_exports_total")
}

func TestAPIRejections(t *testing.T) {
	t.Run("wrong content type", func(t *testing.T) {
		a := newTestApp(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/template/preview", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(a, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apierrors.TypeUnsupportedMedia, body["type"])
	})

	t.Run("upload too large", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) { cfg.Upload.MaxBytes = 64 })
		body, contentType := claimsUpload(t)
		req := httptest.NewRequest(http.MethodPost, "/api/template/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := serve(a, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		var problem map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, apierrors.TypePayloadTooLarge, problem["type"])
	})

	t.Run("rate limited", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) {
			cfg.Security.RateLimit.RPS = 0.001
			cfg.Security.RateLimit.Burst = 1
		})

		codes := make([]int, 0, 2)
		for i := 0; i < 2; i++ {
			body, contentType := claimsUpload(t)
			req := httptest.NewRequest(http.MethodPost, "/api/template/preview", body)
			req.Header.Set("Content-Type", contentType)
			codes = append(codes, serve(a, req).Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

func TestCORSPreflight(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/report/export", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(a, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Content-Disposition")
	assert.Contains(t, exposed, api.WarningsHeader)
}

func TestStartStop(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.Host = "127.0.0.1"
		cfg.Server.Port = 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Start(ctx, cancel))
	require.NoError(t, a.Stop(ctx))
	assert.NoError(t, ctx.Err())
}

package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/loader"
	"claimsheet/internal/shared/testutil"
	"claimsheet/internal/table"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing columns",
			err:        fmt.Errorf("template: %w", &table.MissingColumnError{Table: "claims", Columns: []string{"Claim No", "Date"}}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMissingColumns,
		},
		{
			name:       "unsupported format",
			err:        &loader.UnsupportedFormatError{Filename: "claims.txt", Extension: ".txt"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnsupportedFormat,
		},
		{
			name:       "parse failure",
			err:        &loader.ParseError{Table: "claims", Format: loader.FormatXLSX, Err: fmt.Errorf("zip: not a valid zip file")},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnreadableFile,
		},
		{
			name:       "no header",
			err:        fmt.Errorf("claims: %w", loader.ErrNoHeader),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnreadableFile,
		},
		{
			name:       "oversize upload",
			err:        &http.MaxBytesError{Limit: 1024},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "missing uploads",
			err:        MissingUploads("claims", "benefits"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeMissingUploads,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/template/export", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/template/export", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleNil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorToProblem_Extensions(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/report/preview", nil)

	t.Run("missing columns lists every column", func(t *testing.T) {
		p := h.ErrorToProblem(&table.MissingColumnError{Table: "claims", Columns: []string{"Billed", "Unpaid"}}, req)
		assert.Equal(t, "claims", p.Extensions["table"])
		assert.Equal(t, []string{"Billed", "Unpaid"}, p.Extensions["missing_columns"])
	})

	t.Run("missing uploads carry fields", func(t *testing.T) {
		p := h.ErrorToProblem(MissingUploads("claim_ratio"), req)
		assert.Equal(t, CodeMissingUploads, p.Extensions["error_code"])
		assert.Equal(t, MissingUploadsDetails{Fields: []string{"claim_ratio"}}, p.Extensions["details"])
		assert.Equal(t, "Please upload: claim_ratio", p.Detail)
	})

	t.Run("validator errors", func(t *testing.T) {
		type form struct {
			Filename string `validate:"max=3"`
		}
		err := validator.New().Struct(form{Filename: "too long"})
		require.Error(t, err)

		p := h.ErrorToProblem(err, req)
		assert.Equal(t, http.StatusBadRequest, p.Status)
		fields, ok := p.Extensions["errors"].([]ValidationError)
		require.True(t, ok)
		require.Len(t, fields, 1)
		assert.Equal(t, "Filename", fields[0].Field)
	})
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "", "/x").
		WithExtension("error_code", CodeInvalidRequest)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, CodeInvalidRequest, body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestRecoverer(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	handler := h.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, TypeMethodNotAllowed, decodeProblem(t, rec)["type"])
}

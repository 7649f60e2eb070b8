package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
		wantCode   string
	}{
		{
			name:       "missing input",
			err:        NewMissingInputError(),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeMissingInput,
			wantDetail: MissingInputMessage,
			wantCode:   "MISSING_INPUT",
		},
		{
			name:       "parsing failure",
			err:        NewParsingError("could not read table", errors.New("bare quote")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeParsing,
			wantDetail: "⚠️ Error: could not read table: bare quote",
			wantCode:   "PARSING",
		},
		{
			name:       "storage failure wrapped",
			err:        fmt.Errorf("persist: %w", NewStorageError("write", nil)),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStorage,
			wantCode:   "STORAGE",
		},
		{
			name:       "render failure",
			err:        NewRenderError("heatmap", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeRender,
			wantCode:   "RENDER",
		},
		{
			name:       "cancelled run",
			err:        NewCancelledError(context.Canceled),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeCancelled,
			wantCode:   "CANCELLED",
		},
		{
			name:       "unknown run",
			err:        NewNotFoundError("run"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "api error",
			err:        ErrPayloadTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantCode:   "PAYLOAD_TOO_LARGE",
		},
		{
			name:       "bare deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: ErrInternalServer.Message,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "rate limited",
			err:        ErrRateLimitExceeded.WithMessage("retry after 2 seconds"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantDetail: "retry after 2 seconds",
			wantCode:   "RATE_LIMIT_EXCEEDED",
		},
		{
			name:       "service unavailable",
			err:        ErrServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeServiceDown,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			r := httptest.NewRequest(http.MethodPost, "/api/clean", nil)
			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-1"))
			w := httptest.NewRecorder()

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/clean", body["instance"])
			assert.Equal(t, "req-1", body["trace_id"])
			assert.NotContains(t, body, "stack")
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)
	w := httptest.NewRecorder()

	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)
	w := httptest.NewRecorder()

	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	body := decodeProblem(t, w)
	assert.Contains(t, body, "stack")
	assert.NotContains(t, body, "trace_id")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrTypeMissingInput))
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrTypeValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(ErrTypeParsing))
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrTypeNotFound))
	assert.Equal(t, ErrServiceUnavailable.StatusCode, StatusFor(ErrTypeCancelled))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(ErrTypeConfig))
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	w := httptest.NewRecorder()

	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/health", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["error_code"])
	assert.NotContains(t, body, "panic")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	notFound := decodeProblem(t, w)
	assert.Equal(t, TypeNotFound, notFound["type"])
	assert.Equal(t, "NOT_FOUND", notFound["error_code"])
	assert.Equal(t, ErrNotFound.Message, notFound["detail"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/clean", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", decodeProblem(t, w)["detail"])
}

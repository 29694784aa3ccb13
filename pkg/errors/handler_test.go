package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	errGone  = errors.New("gone")
	errOwner = errors.New("not yours")
)

func serve(h *ErrorHandler, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.Handle(rec, req, err)

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHandle_Taxonomy(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	tests := []struct {
		name   string
		err    error
		status int
		typ    ErrorType
		code   string
	}{
		{name: "validation", err: NewValidationError("Missing name"), status: http.StatusBadRequest, typ: ErrorTypeValidation},
		{name: "not found", err: NewNotFoundError("list"), status: http.StatusNotFound, typ: ErrorTypeNotFound},
		{name: "forbidden", err: NewForbiddenError(""), status: http.StatusForbidden, typ: ErrorTypeForbidden},
		{name: "missing credentials", err: NewMissingCredentialsError(""), status: http.StatusForbidden, typ: ErrorTypeForbidden, code: CodeMissingCredentials},
		{name: "invalid credentials", err: NewInvalidCredentialsError("Invalid token", errors.New("expired")), status: http.StatusForbidden, typ: ErrorTypeForbidden, code: CodeInvalidCredentials},
		{name: "store failure", err: NewStoreError("PutItem Lists", errors.New("throttled")), status: http.StatusInternalServerError, typ: ErrorTypeInternal, code: CodeStoreFailure},
		{name: "publish failure", err: NewPublishError("eventbridge", errors.New("down")), status: http.StatusInternalServerError, typ: ErrorTypeInternal, code: CodePublishFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(h, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, body.Error)
			assert.Equal(t, string(tt.typ), body.Type)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestHandle_StoreErrorHidesOperation(t *testing.T) {
	_, body := serve(NewErrorHandler(zap.NewNop(), false), NewStoreError("GetItem Lists", errors.New("throttled")))

	assert.NotContains(t, body.Message, "Lists")
	assert.Nil(t, body.Details)
}

func TestHandle_Sentinels(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false,
		Sentinel{Err: errGone, Type: ErrorTypeNotFound, Code: "GONE"},
		Sentinel{Err: errOwner, Type: ErrorTypeForbidden, Code: "NOT_OWNER", Message: "not the owner"},
	)

	t.Run("wrapped sentinel", func(t *testing.T) {
		rec, body := serve(h, fmt.Errorf("get a1: %w", errGone))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, string(ErrorTypeNotFound), body.Type)
		assert.Equal(t, "GONE", body.Code)
		assert.Equal(t, "gone", body.Message)
	})

	t.Run("message override", func(t *testing.T) {
		rec, body := serve(h, errOwner)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "not the owner", body.Message)
	})

	t.Run("resolve keeps the chain", func(t *testing.T) {
		err := fmt.Errorf("delete: %w", errOwner)
		appErr := h.Resolve(err)

		assert.ErrorIs(t, appErr, errOwner)
	})

	t.Run("unregistered errors stay opaque", func(t *testing.T) {
		rec, body := serve(h, errors.New("secret table name"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, string(ErrorTypeInternal), body.Type)
		assert.NotContains(t, body.Message, "secret")
	})
}

func TestHandle_WrappedAppError(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec, body := serve(h, fmt.Errorf("handler: %w", NewNotFoundError("list").WithCode("LIST_NOT_FOUND")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LIST_NOT_FOUND", body.Code)
}

func TestHandle_DebugExposesCause(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)

	_, body := serve(h, NewStoreError("GetItem Lists", errors.New("throttled")))
	assert.Equal(t, "GetItem Lists: throttled", body.Details["cause"])

	_, body = serve(h, errors.New("raw failure"))
	assert.Equal(t, "raw failure", body.Message)
}

func TestMiddleware_RecoversPanics(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	handler := h.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandleStatus(t *testing.T) {
	h := NewErrorHandler(nil, false)

	tests := []struct {
		status int
		typ    ErrorType
	}{
		{status: http.StatusNotFound, typ: ErrorTypeNotFound},
		{status: http.StatusMethodNotAllowed, typ: ErrorTypeValidation},
		{status: http.StatusUnauthorized, typ: ErrorTypeForbidden},
		{status: http.StatusServiceUnavailable, typ: ErrorTypeInternal},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/nope", nil), tt.status, "nope")

		assert.Equal(t, tt.status, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(tt.typ), body.Type)
	}
}

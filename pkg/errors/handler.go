package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Sentinel reports a plain error value, and anything wrapping it, as an
// AppError of the given type and code.
type Sentinel struct {
	Err     error
	Type    ErrorType
	Code    string
	Message string
}

// ErrorHandler writes errors as ErrorResponse bodies.
type ErrorHandler struct {
	logger    *zap.Logger
	debug     bool
	sentinels []Sentinel
}

// NewErrorHandler creates a handler. With debug set, causes are echoed in
// the response details.
func NewErrorHandler(logger *zap.Logger, debug bool, sentinels ...Sentinel) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{
		logger:    logger,
		debug:     debug,
		sentinels: sentinels,
	}
}

// Resolve maps err onto the AppError it is reported as. Registered
// sentinels win over AppErrors further down the chain; anything else is
// an opaque INTERNAL error.
func (h *ErrorHandler) Resolve(err error) *AppError {
	for _, s := range h.sentinels {
		if errors.Is(err, s.Err) {
			message := s.Message
			if message == "" {
				message = s.Err.Error()
			}
			return &AppError{Type: s.Type, Message: message, Code: s.Code, Cause: err}
		}
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}

	resolved := NewInternalError("An internal error occurred").WithCause(err)
	if h.debug {
		resolved.Message = err.Error()
	}
	return resolved
}

// Handle writes err to w.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := h.Resolve(err)
	status := appErr.Status()
	response := ErrorResponse{
		Error:     true,
		Type:      string(appErr.Type),
		Message:   appErr.Message,
		Code:      appErr.Code,
		Details:   appErr.Details,
		RequestID: requestIDFrom(r),
	}

	if h.debug && appErr.Cause != nil {
		details := make(map[string]interface{}, len(response.Details)+1)
		for k, v := range response.Details {
			details[k] = v
		}
		details["cause"] = appErr.Cause.Error()
		response.Details = details
	}

	h.log(r, appErr, status)

	render.Status(r, status)
	render.JSON(w, r, response)
}

// HandleStatus writes a bare status, used for routing failures.
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Error:     true,
		Type:      string(typeForStatus(status)),
		Message:   message,
		RequestID: requestIDFrom(r),
	})
}

func (h *ErrorHandler) log(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", requestIDFrom(r)),
	}
	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if status >= 500 {
		h.logger.Error(err.Message, fields...)
		return
	}
	h.logger.Warn(err.Message, fields...)
}

func requestIDFrom(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

func typeForStatus(status int) ErrorType {
	switch {
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return ErrorTypeForbidden
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status >= 400 && status < 500:
		return ErrorTypeValidation
	default:
		return ErrorTypeInternal
	}
}

// Middleware turns panics into INTERNAL responses.
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError("An internal error occurred").
					WithCause(fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// internal/app/features/apierrors/apierrors.go

// Package apierrors writes the JSON error envelope used by every API
// handler: {"success": false, "message": "..."}. The ErrorLogger pairs the
// client response with a zap log line so handler code stays one call.
package apierrors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Write sends an error envelope with the given status.
func Write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: msg})
}

// BadRequest sends a 400 envelope.
func BadRequest(w http.ResponseWriter, msg string) { Write(w, http.StatusBadRequest, msg) }

// Unauthorized sends a 401 envelope.
func Unauthorized(w http.ResponseWriter, msg string) { Write(w, http.StatusUnauthorized, msg) }

// Forbidden sends a 403 envelope.
func Forbidden(w http.ResponseWriter, msg string) { Write(w, http.StatusForbidden, msg) }

// NotFound sends a 404 envelope.
func NotFound(w http.ResponseWriter, msg string) { Write(w, http.StatusNotFound, msg) }

// Conflict sends a 409 envelope (already-member and duplicate-name cases).
func Conflict(w http.ResponseWriter, msg string) { Write(w, http.StatusConflict, msg) }

// Timeout sends a 504 envelope (statistics replay budget exceeded).
func Timeout(w http.ResponseWriter, msg string) { Write(w, http.StatusGatewayTimeout, msg) }

// ServerError sends a 500 envelope.
func ServerError(w http.ResponseWriter, msg string) { Write(w, http.StatusInternalServerError, msg) }

// ErrorLogger logs handler failures and writes the matching envelope.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err at error level and sends a 500 envelope with the
// user-facing message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	ServerError(w, userMsg)
}

// LogBadRequest logs err at warn level and sends a 400 envelope.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	BadRequest(w, userMsg)
}

// LogWarn logs err at warn level without writing a response. Used for
// best-effort side effects (qualification transitions, ledger repair gaps)
// that must not fail the primary mutation.
func (e *ErrorLogger) LogWarn(r *http.Request, logMsg string, err error) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

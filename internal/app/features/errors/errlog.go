// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers report failures in one call.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal failure and renders a 500 page with a
// message safe to show the user.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:   "Something went wrong",
		Message: userMsg,
		BackURL: backURL,
	})
}

// LogBadRequest logs a malformed request and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:   "Bad request",
		Message: userMsg,
		BackURL: backURL,
	})
}

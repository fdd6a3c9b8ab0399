// internal/app/features/errors/errorlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger converts failures into JSON responses. Each failure produces
// exactly one {"error": "..."} body; unhandled errors are logged and their
// text never reaches the client.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// Write maps err to its status and message. op names the failed operation
// in the log entry.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnhandled {
		e.Log.Error(op,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else if kind == apperr.KindStoreSchema || kind == apperr.KindMalformedID {
		e.Log.Debug(op,
			zap.String("kind", kind.String()),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	jsonutil.Error(w, kind.Status(), apperr.Message(err))
}

// notFoundBody is the catch-all body for unmatched routes.
type notFoundBody struct {
	Error bool   `json:"error"`
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
}

// NotFound answers any unmatched route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.Write(w, http.StatusNotFound, notFoundBody{
		Error: true,
		Code:  http.StatusNotFound,
		Msg:   "Api Not Found",
	})
}

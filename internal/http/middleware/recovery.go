package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/logger"
	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a 500 response and logs the stack
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				reqLog := logger.WithRequest(log, r.Method, r.URL.Path, r.Header.Get(RequestIDHeader))
				if userCtx, ok := auth.FromContext(r.Context()); ok {
					reqLog = logger.WithUser(reqLog, userCtx.UserID, userCtx.Username)
				}
				reqLog.Error("panic while handling request",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(domain.APIError{
					Type:   domain.ErrorTypeInternal,
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
					Detail: "An unexpected error occurred",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

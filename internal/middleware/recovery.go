package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "samarth/internal/errors"
	"samarth/pkg/api"

	"go.uber.org/zap"
)

// Recovery converts handler panics into a JSON 500 and logs the stack.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
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

				requestID := GetRequestIDFromRequest(r)
				logger.Error("Panic while serving request",
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", debug.Stack()),
				)

				// Only answer if nothing has been written yet.
				if w.Header().Get("Content-Type") == "" {
					api.ErrorWithCode(w, http.StatusInternalServerError,
						apperrors.CodeInternal, "Internal server error", requestID)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

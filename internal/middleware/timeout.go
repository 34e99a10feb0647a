package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "samarth/internal/errors"
	"samarth/pkg/api"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Timeout bounds the request context. Handlers run on the calling goroutine
// and are expected to honour ctx; if the deadline passed and the handler wrote
// nothing, a 504 is sent.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 && ww.BytesWritten() == 0 {
				api.ErrorWithCode(w, http.StatusGatewayTimeout,
					apperrors.CodeInternal, "Request timeout", GetRequestIDFromRequest(r))
			}
		})
	}
}

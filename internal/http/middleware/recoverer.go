package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/apierr"
)

// Recoverer turns a handler panic into a 500 JSON error. The panic and its
// stack are logged and recorded on the request span; the stack is echoed to
// the client only when exposeStack is set.
func Recoverer(log *slog.Logger, exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					// the client connection is gone; let net/http abort quietly
					panic(rvr)
				}

				stack := string(debug.Stack())
				log.ErrorContext(r.Context(), "panic", slog.Any("recover", rvr),
					slog.String("stack", stack))

				span := trace.SpanFromContext(r.Context())
				span.RecordError(fmt.Errorf("panic: %v", rvr))
				span.SetStatus(codes.Error, "panic")

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}

				res := apierr.ErrorResponse{
					Code:    apierr.InternalServerErrorCode,
					Message: "internal server error",
				}
				if exposeStack {
					res = res.WithStack(stack)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				//nolint:errcheck
				json.NewEncoder(w).Encode(res)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

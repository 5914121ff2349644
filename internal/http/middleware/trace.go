package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
)

const correlationIDAttr = attribute.Key("correlation_id")

// Trace opens a server span per request, continuing any trace the caller
// propagated. The span is named after the matched chi route.
func Trace(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := untracedPaths[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			attrs := []attribute.KeyValue{
				semconv.HTTPURLKey.String(r.RequestURI),
				semconv.HTTPMethodKey.String(r.Method),
				semconv.HTTPUserAgentKey.String(r.UserAgent()),
				semconv.HTTPRequestContentLengthKey.Int64(r.ContentLength),
			}
			if id, ok := correlationid.FromContext(r.Context()); ok {
				attrs = append(attrs, correlationIDAttr.String(id))
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method, trace.WithAttributes(attrs...), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			span.SetName(r.Method + " " + route)

			status := ww.Status()
			span.SetAttributes(
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPStatusCodeKey.Int(status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, fmt.Sprintf("error with HTTP status code %d", status))
			}
		})
	}
}

var untracedPaths = map[string]struct{}{
	MetricsPath:     {},
	"/healthz":      {},
	swagger.URL:     {},
	swagger.SpecURL: {},
}

package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// kTracer is installed as a kgo hook on every client: produce spans inject
// the trace context into record headers and fetched records get a process
// span continuing it.
var kTracer = kotel.NewTracer(
	kotel.TracerProvider(otel.GetTracerProvider()),
	kotel.TracerPropagator(otel.GetTextMapPropagator()),
)

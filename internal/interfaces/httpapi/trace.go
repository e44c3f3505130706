package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "football-history/internal/interfaces/httpapi"

// handlerSpan opens a child span named after the handler operation. Requests
// the router does not trace (health probes) carry no parent span and get a
// no-op span back.
func handlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return otel.Tracer(tracerName).Start(ctx, handlerSpanName(op))
}

func handlerSpanName(op string) string {
	return "httpapi.Handler." + op
}

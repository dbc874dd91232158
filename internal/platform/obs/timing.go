package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

const tracerName = "technician-dispatch-service"

// WithRequestID stores the request id used to correlate operation logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts a span and a stopwatch for the named operation. The returned
// context carries the span, so operations timed with it nest underneath.
// The returned function ends both and records *errp when it is non-nil:
//
//	ctx, done := obs.Time(ctx, "appointments.List")
//	defer done(&err)
func Time(ctx context.Context, name string) (context.Context, func(errp *error)) {
	start := time.Now()
	reqID := RequestID(ctx)
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	traceID := traceIDOf(span)

	return ctx, func(errp *error) {
		dur := time.Since(start)
		defer span.End()

		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
			log.Warn().
				Str("req_id", reqID).
				Str("trace_id", traceID).
				Str("op", name).
				Int64("dur_ms", dur.Milliseconds()).
				Err(*errp).
				Msg("operation failed")
			return
		}

		log.Debug().
			Str("req_id", reqID).
			Str("trace_id", traceID).
			Str("op", name).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("operation done")
	}
}

// traceIDOf is empty while no tracer provider is installed.
func traceIDOf(span trace.Span) string {
	sc := span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

const spanPrefix = "UC."

// Instrumentation holds the telemetry every use case in a service shares.
type Instrumentation struct {
	tracer observability.Tracer
	// Base logger with fixed fields prebound (vendor must remain hidden).
	log observability.Logger
	// RED metrics (supplied via DI; do not instantiate inside methods).
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewInstrumentation(tel observability.Observability, service string) Instrumentation {
	tel = observability.OrNop(tel)
	metrics := tel.Metrics()
	return Instrumentation{
		tracer:       tel.Tracer(),
		log:          tel.Logger().With(observability.F("service", service)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
	}
}

// Run tracks one use case execution: a span, RED metrics and a single
// use_case_done log line.
type Run struct {
	useCase    string
	span       trace.Span
	start      time.Time
	outcome    string
	statusText string
	logger     observability.Logger
	fields     []observability.Field
	inst       *Instrumentation
}

// Start opens a span named UC.<spanName>. The returned context carries it.
func (in *Instrumentation) Start(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	logger := logctx.FromOr(ctx, in.log).With(observability.F("use_case", useCase))
	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := in.tracer.Start(ctx, spanPrefix+spanName, attrs...)
	return ctx, &Run{
		useCase:    useCase,
		span:       span,
		start:      time.Now(),
		outcome:    "success",
		statusText: "OK",
		logger:     logger,
		inst:       in,
	}
}

// Fail records an error outcome with a machine readable status.
func (r *Run) Fail(status string) {
	r.outcome, r.statusText = "error", status
}

// Status overrides the status text without changing the outcome.
func (r *Run) Status(status string) {
	r.statusText = status
}

// With adds fields to the final log line.
func (r *Run) With(fields ...observability.Field) {
	r.fields = append(r.fields, fields...)
}

func (r *Run) Span() trace.Span { return r.span }

// Logger is the use case scoped logger.
func (r *Run) Logger() observability.Logger { return r.logger }

// End closes the span, records metrics and writes use_case_done. Call it
// deferred with the use case's named error result.
func (r *Run) End(ctx context.Context, err error) {
	if err != nil && r.outcome == "success" {
		r.Fail("ERROR")
	}
	lat := time.Since(r.start).Seconds()

	if r.span != nil {
		if err != nil {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, r.statusText)
		} else {
			r.span.SetStatus(codes.Ok, r.statusText)
		}
		r.span.End()
	}

	if r.inst.reqCounter != nil {
		r.inst.reqCounter.Add(1,
			observability.L("use_case", r.useCase),
			observability.L("outcome", r.outcome),
		)
	}
	if r.inst.durHistogram != nil {
		r.inst.durHistogram.Observe(lat,
			observability.L("use_case", r.useCase),
		)
	}

	fields := []observability.Field{
		observability.F("outcome", r.outcome),
		observability.F("status", r.statusText),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	fields = append(fields, r.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}

	if errors.Is(err, ErrRepository) {
		r.logger.Error("use_case_done", fields...)
		return
	}
	r.logger.Info("use_case_done", fields...)
}

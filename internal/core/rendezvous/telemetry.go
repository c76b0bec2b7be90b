package rendezvous

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("rendezvous.solver")
	meter  = otel.Meter("rendezvous.solver")
)

var (
	solveLatency   metric.Float64Histogram
	candidateTotal metric.Int64Counter
	rejectionTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		solveLatency, err = meter.Float64Histogram(
			"rendezvous_solve_duration_seconds",
			metric.WithDescription("Duration of throw searches"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidateTotal, err = meter.Int64Counter(
			"rendezvous_candidates_total",
			metric.WithDescription("Candidate x speeds evaluated"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		rejectionTotal, err = meter.Int64Counter(
			"rendezvous_rejections_total",
			metric.WithDescription("Candidate x speeds abandoned, by reason"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startSolveSpan(ctx context.Context, hailstones int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rendezvous.Solve",
		trace.WithAttributes(
			attribute.Int("rendezvous.hailstones", hailstones),
		),
	)
}

func setSolveSpanResult(span trace.Span, candidates int, err error) {
	span.SetAttributes(attribute.Int("rendezvous.candidates", candidates))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func recordSolveMetrics(ctx context.Context, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	solveLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}

func recordCandidate(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	candidateTotal.Add(ctx, 1)
}

func recordRejection(ctx context.Context, reason string) {
	if err := initMetrics(); err != nil {
		return
	}
	rejectionTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"orangejuice/internal/shared/apperr"
)

// Operations counts ledger operations by name and outcome. Until Init runs
// the global provider is a no-op, so services can record unconditionally.
type Operations struct {
	counter metric.Int64Counter
}

// NewOperations creates the bank.operations.total counter on the global
// meter provider. The instrument is resolved lazily by the otel global
// delegate, so calling this before Init is safe.
func NewOperations(scope string) *Operations {
	counter, _ := otel.Meter(scope).Int64Counter("bank.operations.total",
		metric.WithDescription("Ledger operations by outcome"),
	)
	return &Operations{counter: counter}
}

// Record adds one operation. The outcome is "ok" on success or the
// error kind otherwise.
func (o *Operations) Record(ctx context.Context, operation string, err error) {
	if o == nil || o.counter == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	o.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

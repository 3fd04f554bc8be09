package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersCreatedTotal       metric.Int64Counter
	orderCreationDuration    metric.Float64Histogram
	orderValidationDuration  metric.Float64Histogram
	orderPersistenceDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersCreatedTotal, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of order creation attempts by outcome"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_created_total counter: %w", err)
	}

	m.orderCreationDuration, err = meter.Float64Histogram(
		"order_creation_duration_seconds",
		metric.WithDescription("Total duration of order creation attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_creation_duration histogram: %w", err)
	}

	m.orderValidationDuration, err = meter.Float64Histogram(
		"order_validation_duration_seconds",
		metric.WithDescription("Duration of order request validation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_validation_duration histogram: %w", err)
	}

	m.orderPersistenceDuration, err = meter.Float64Histogram(
		"order_persistence_duration_seconds",
		metric.WithDescription("Duration of order persistence"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_persistence_duration histogram: %w", err)
	}

	return m, nil
}

// invalidCategory labels attempts whose category is not a defined value, so
// request input cannot grow the label set.
const invalidCategory = "invalid"

func (m *Metrics) RecordOrderCreated(ctx context.Context, success bool, category string) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("category", categoryLabel(category)),
	))
}

func categoryLabel(category string) string {
	if c := domain.ParseCategory(category); c.IsValid() {
		return string(c)
	}
	return invalidCategory
}

func (m *Metrics) RecordDurations(ctx context.Context, validation, persistence, total time.Duration) {
	m.orderValidationDuration.Record(ctx, validation.Seconds())
	if persistence > 0 {
		m.orderPersistenceDuration.Record(ctx, persistence.Seconds())
	}
	m.orderCreationDuration.Record(ctx, total.Seconds())
}

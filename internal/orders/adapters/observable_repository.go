package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/catalog/internal/database"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/ports"
	"github.com/dejobratic/catalog/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservableRepository wraps a repository with a span and a query duration
// sample per call. metrics may be nil.
type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) Add(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Add")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.category", string(order.Category)),
		attribute.String("operation", "add"),
	)

	start := time.Now()
	err := r.repo.Add(ctx, order)
	r.record(ctx, "add_order", start, err)

	return finish(span, err)
}

func (r *ObservableRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.ExistsByISBN")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.isbn", isbn),
		attribute.String("operation", "exists_by_isbn"),
	)

	start := time.Now()
	exists, err := r.repo.ExistsByISBN(ctx, isbn)
	r.record(ctx, "exists_by_isbn", start, err)

	telemetry.AddSpanAttributes(span, attribute.Bool("result.exists", exists))
	return exists, finish(span, err)
}

func (r *ObservableRepository) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.ExistsByTitleAndAuthor")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("operation", "exists_by_title_author"))

	start := time.Now()
	exists, err := r.repo.ExistsByTitleAndAuthor(ctx, title, author)
	r.record(ctx, "exists_by_title_author", start, err)

	telemetry.AddSpanAttributes(span, attribute.Bool("result.exists", exists))
	return exists, finish(span, err)
}

func (r *ObservableRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetAll")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("operation", "list"))

	start := time.Now()
	orders, err := r.repo.GetAll(ctx)
	r.record(ctx, "list_orders", start, err)

	if err != nil {
		return nil, finish(span, err)
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	return orders, finish(span, nil)
}

func (r *ObservableRepository) record(ctx context.Context, operation string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordQuery(ctx, operation, time.Since(start).Seconds(), err)
}

func finish(span trace.Span, err error) error {
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}
	telemetry.SetSpanSuccess(span)
	return nil
}

package commands

import (
	"context"
	"errors"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableCommandHandler wraps a CommandHandler in a span describing the
// request and its outcome. Logs and metrics are emitted by the wrapped handler.
type ObservableCommandHandler struct {
	handler CommandHandler
}

func NewObservableCommandHandler(handler CommandHandler) *ObservableCommandHandler {
	return &ObservableCommandHandler{handler: handler}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.OrderProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.category", string(cmd.Request.Category)),
		attribute.String("order.isbn", cmd.Request.ISBN),
	)

	profile, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			telemetry.AddSpanAttributes(span,
				attribute.Int("validation.failures", len(verr.Failures)),
				attribute.Bool("validation.duplicate", errors.Is(err, domain.ErrNotUnique)),
			)
		}
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", profile.ID),
		attribute.String("order.price", profile.Price.String()),
		attribute.String("order.availability", profile.AvailabilityStatus),
	)
	telemetry.SetSpanSuccess(span)

	return profile, nil
}

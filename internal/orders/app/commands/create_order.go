package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dejobratic/catalog/internal/orders/app/mapping"
	"github.com/dejobratic/catalog/internal/orders/app/validation"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/metrics"
	"github.com/dejobratic/catalog/internal/orders/ports"
	"github.com/dejobratic/catalog/internal/telemetry"
	"github.com/google/uuid"
)

type CreateOrderCommand struct {
	Request domain.CreateOrderRequest
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.OrderProfile, error)
}

type Validator interface {
	Validate(ctx context.Context, req domain.CreateOrderRequest) (validation.Result, error)
}

type Recorder interface {
	Record(ctx context.Context, rec metrics.CreationRecord)
}

// CreateOrderCommandHandler runs one creation attempt end to end: validate,
// persist, invalidate the listing cache, count, and report metrics.
type CreateOrderCommandHandler struct {
	validator Validator
	repo      ports.OrderRepository
	cache     ports.ProfileCache
	counter   ports.DailyCounter
	recorder  Recorder
	logger    *slog.Logger

	now            func() time.Time
	newID          func() string
	newOperationID func() string
}

type Option func(*CreateOrderCommandHandler)

func WithClock(now func() time.Time) Option {
	return func(h *CreateOrderCommandHandler) { h.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(h *CreateOrderCommandHandler) { h.newID = newID }
}

func WithOperationIDGenerator(newID func() string) Option {
	return func(h *CreateOrderCommandHandler) { h.newOperationID = newID }
}

func NewCreateOrderCommandHandler(
	validator Validator,
	repo ports.OrderRepository,
	cache ports.ProfileCache,
	counter ports.DailyCounter,
	recorder Recorder,
	logger *slog.Logger,
	opts ...Option,
) *CreateOrderCommandHandler {
	h := &CreateOrderCommandHandler{
		validator:      validator,
		repo:           repo,
		cache:          cache,
		counter:        counter,
		recorder:       recorder,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
		newOperationID: telemetry.NewShortID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle emits exactly one metrics record per call, including when a panic
// unwinds through it.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.OrderProfile, error) {
	opID := h.newOperationID()
	ctx = telemetry.WithOperationID(ctx, opID)
	req := cmd.Request

	rec := metrics.CreationRecord{
		OperationID: opID,
		Title:       req.Title,
		ISBN:        req.ISBN,
		Category:    req.Category,
	}
	start := time.Now()
	recorded := false
	finish := func(success bool, reason string) {
		rec.TotalDuration = time.Since(start)
		rec.Success = success
		rec.ErrorReason = reason
		h.recorder.Record(ctx, rec)
		recorded = true
	}
	defer func() {
		if r := recover(); r != nil {
			if !recorded {
				finish(false, fmt.Sprintf("panic: %v", r))
			}
			panic(r)
		}
	}()

	h.logger.InfoContext(ctx, "order creation started",
		"title", req.Title,
		"author", req.Author,
		"category", string(req.Category),
		"isbn", req.ISBN,
	)

	validationStart := time.Now()
	result, err := h.validator.Validate(ctx, req)
	rec.ValidationDuration = time.Since(validationStart)
	if err != nil {
		h.logger.ErrorContext(ctx, "order validation could not complete", "error", err)
		finish(false, err.Error())
		return nil, fmt.Errorf("validate order: %w", err)
	}
	if !result.Valid() {
		verr := &domain.ValidationError{Failures: result.Failures}
		h.logger.WarnContext(ctx, "order validation failed",
			"errors", verr.Messages(),
			"validation_ms", rec.ValidationDuration.Milliseconds(),
		)
		finish(false, verr.Error())
		return nil, verr
	}

	h.logger.InfoContext(ctx, "order validation passed",
		"validation_ms", rec.ValidationDuration.Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		h.logger.WarnContext(ctx, "order creation cancelled", "error", err)
		finish(false, err.Error())
		return nil, err
	}

	order := mapping.ToOrder(req, h.newID(), h.now())

	persistStart := time.Now()
	err = h.repo.Add(ctx, order)
	rec.PersistenceDuration = time.Since(persistStart)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to persist order",
			"error", err,
			"order_id", order.ID,
		)
		finish(false, err.Error())
		return nil, &domain.PersistenceError{Err: err}
	}

	if err := h.cache.Remove(ctx, ports.AllOrdersCacheKey); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate orders cache", "error", err)
	}

	todayCount := h.counter.Increment(order.CreatedAt)
	profile := mapping.ToProfile(order, h.now())

	h.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"isbn", order.ISBN,
		"daily_count", todayCount,
		"persistence_ms", rec.PersistenceDuration.Milliseconds(),
	)

	finish(true, "")
	return &profile, nil
}

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/catalog/internal/orders/app/commands"
	"github.com/dejobratic/catalog/internal/orders/app/queries"
	"github.com/dejobratic/catalog/internal/orders/app/validation"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/ports"
)

// Service bundles the order use cases exposed over the API.
type Service struct {
	createOrderHandler commands.CommandHandler
	listOrdersHandler  *queries.ListOrdersQueryHandler
}

// Dependencies are the collaborators shared by the order use cases.
type Dependencies struct {
	Repository ports.OrderRepository
	Cache      ports.ProfileCache
	Counter    ports.DailyCounter
	Recorder   commands.Recorder
	Logger     *slog.Logger
	Rules      *validation.Rules
	Clock      func() time.Time
}

// NewService wires the validator, the traced creation handler and the
// listing query over deps.
func NewService(deps Dependencies) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	opts := []validation.Option{validation.WithClock(clock)}
	if deps.Rules != nil {
		opts = append(opts, validation.WithRules(*deps.Rules))
	}
	validator := validation.NewValidator(deps.Repository, deps.Counter, deps.Logger, opts...)
	coreHandler := commands.NewCreateOrderCommandHandler(
		validator, deps.Repository, deps.Cache, deps.Counter, deps.Recorder, deps.Logger,
		commands.WithClock(clock),
	)

	return &Service{
		createOrderHandler: commands.NewObservableCommandHandler(coreHandler),
		listOrdersHandler:  queries.NewListOrdersQueryHandler(deps.Repository, deps.Cache, deps.Logger, clock),
	}
}

// CreateOrder validates and stores a new order, returning its profile.
func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderProfile, error) {
	return s.createOrderHandler.Handle(ctx, commands.CreateOrderCommand{Request: req})
}

// ListOrders returns the profile of every order.
func (s *Service) ListOrders(ctx context.Context) ([]domain.OrderProfile, error) {
	return s.listOrdersHandler.Handle(ctx)
}

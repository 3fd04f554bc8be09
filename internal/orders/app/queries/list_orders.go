package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dejobratic/catalog/internal/orders/app/mapping"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/ports"
)

// ListOrdersQueryHandler returns the profile of every stored order, serving
// from the all_orders cache entry when it is populated.
type ListOrdersQueryHandler struct {
	repo   ports.OrderRepository
	cache  ports.ProfileCache
	logger *slog.Logger
	now    func() time.Time
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler. A nil clock
// defaults to the current UTC time.
func NewListOrdersQueryHandler(repo ports.OrderRepository, cache ports.ProfileCache, logger *slog.Logger, now func() time.Time) *ListOrdersQueryHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ListOrdersQueryHandler{repo: repo, cache: cache, logger: logger, now: now}
}

// Handle executes the query. Cache failures degrade to a repository read. A
// recomputed list is cached only if no creation invalidated the entry while
// it was being built.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context) ([]domain.OrderProfile, error) {
	cached, ok, err := h.cache.Get(ctx, ports.AllOrdersCacheKey)
	switch {
	case err != nil:
		h.logger.WarnContext(ctx, "failed to read orders cache", "error", err)
	case ok:
		return cached, nil
	}

	generation, err := h.cache.Generation(ctx, ports.AllOrdersCacheKey)
	cacheable := err == nil
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read orders cache generation", "error", err)
	}

	orders, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	profiles := mapping.ToProfiles(orders, h.now())

	if cacheable {
		stored, err := h.cache.Set(ctx, ports.AllOrdersCacheKey, generation, profiles)
		switch {
		case err != nil:
			h.logger.WarnContext(ctx, "failed to populate orders cache", "error", err)
		case !stored:
			h.logger.DebugContext(ctx, "orders cache invalidated during listing, skipped populate")
		}
	}

	return profiles, nil
}

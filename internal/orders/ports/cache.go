package ports

import (
	"context"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// AllOrdersCacheKey names the cached list of every order profile.
const AllOrdersCacheKey = "all_orders"

// ProfileCache stores rendered order profile lists under a key.
//
// Every Remove of a key advances its generation. A reader takes the
// generation before computing a list and passes it to Set, which stores the
// list only if no Remove happened in between, so a list computed before an
// invalidation can never overwrite it.
type ProfileCache interface {
	Get(ctx context.Context, key string) ([]domain.OrderProfile, bool, error)
	Generation(ctx context.Context, key string) (uint64, error)
	Set(ctx context.Context, key string, generation uint64, profiles []domain.OrderProfile) (bool, error)
	Remove(ctx context.Context, key string) error
}

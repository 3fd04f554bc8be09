package ports

import (
	"context"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
// Implementations may block on I/O; callers always pass the request context.
type OrderRepository interface {
	Add(ctx context.Context, order domain.Order) error
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
}

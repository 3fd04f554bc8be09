package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// Repository provides an in-memory store useful for local development and tests.
// Orders are kept in insertion order.
type Repository struct {
	mu     sync.RWMutex
	orders []domain.Order
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Add appends an order. Uniqueness is enforced by validation, not here.
func (r *Repository) Add(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}

// ExistsByISBN reports whether an order with the same normalized ISBN is stored.
func (r *Repository) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	key := domain.NormalizeISBN(isbn)
	if key == "" {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.ISBNKey() == key {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByTitleAndAuthor reports whether the title/author pair is taken, ignoring case.
func (r *Repository) ExistsByTitleAndAuthor(_ context.Context, title, author string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if strings.EqualFold(order.Title, title) && strings.EqualFold(order.Author, author) {
			return true, nil
		}
	}
	return false, nil
}

// GetAll returns a snapshot of every stored order.
func (r *Repository) GetAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]domain.Order, len(r.orders))
	copy(snapshot, r.orders)
	return snapshot, nil
}

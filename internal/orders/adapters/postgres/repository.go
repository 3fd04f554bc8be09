package postgres

import (
	"context"
	"fmt"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository stores orders in the orders table. Insertion order is the
// table's serial key.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Add(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (
			id, title, author, isbn, isbn_normalized, category, price,
			published_date, cover_image_url, stock_quantity, is_available,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::text::numeric, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Title,
		order.Author,
		order.ISBN,
		order.ISBNKey(),
		string(order.Category),
		order.Price.String(),
		order.PublishedDate,
		order.CoverImageURL,
		order.StockQuantity,
		order.IsAvailable,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *Repository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	key := domain.NormalizeISBN(isbn)
	if key == "" {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE isbn_normalized = $1)`,
		key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check isbn: %w", err)
	}

	return exists, nil
}

func (r *Repository) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE lower(title) = lower($1) AND lower(author) = lower($2))`,
		title, author,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check title and author: %w", err)
	}

	return exists, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, title, author, isbn, category, price::text, published_date,
			cover_image_url, stock_quantity, is_available, created_at, updated_at
		FROM orders
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (domain.Order, error) {
	var (
		order    domain.Order
		category string
		price    string
	)

	if err := row.Scan(
		&order.ID,
		&order.Title,
		&order.Author,
		&order.ISBN,
		&category,
		&price,
		&order.PublishedDate,
		&order.CoverImageURL,
		&order.StockQuantity,
		&order.IsAvailable,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse price %q: %w", price, err)
	}

	order.Category = domain.Category(category)
	order.Price = amount
	order.PublishedDate = order.PublishedDate.UTC()
	order.CreatedAt = order.CreatedAt.UTC()

	return order, nil
}

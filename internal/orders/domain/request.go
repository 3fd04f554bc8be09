package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest carries the caller-supplied fields of a new order.
type CreateOrderRequest struct {
	Title         string
	Author        string
	ISBN          string
	Category      Category
	Price         decimal.Decimal
	PublishedDate time.Time
	CoverImageURL string
	StockQuantity int
}

// OrderProfile is the display representation of an order.
type OrderProfile struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Author              string          `json:"author"`
	ISBN                string          `json:"isbn"`
	Category            Category        `json:"category"`
	CategoryDisplayName string          `json:"categoryDisplayName"`
	FormattedPrice      string          `json:"formattedPrice"`
	PublishedAge        string          `json:"publishedAge"`
	AuthorInitials      string          `json:"authorInitials"`
	AvailabilityStatus  string          `json:"availabilityStatus"`
	Price               decimal.Decimal `json:"price"`
	CoverImageURL       *string         `json:"coverImageUrl"`
	StockQuantity       int             `json:"stockQuantity"`
	PublishedDate       time.Time       `json:"publishedDate"`
	CreatedAt           time.Time       `json:"createdAt"`
}

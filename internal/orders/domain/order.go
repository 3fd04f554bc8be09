package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a catalog order.
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "NonFiction"
	CategoryTechnical  Category = "Technical"
	CategoryChildren   Category = "Children"
)

// Categories lists every defined category in declaration order.
func Categories() []Category {
	return []Category{CategoryFiction, CategoryNonFiction, CategoryTechnical, CategoryChildren}
}

// ParseCategory resolves a category name case-insensitively. Unknown names are
// returned unchanged so that validation can report them.
func ParseCategory(name string) Category {
	trimmed := strings.TrimSpace(name)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), trimmed) {
			return c
		}
	}
	return Category(trimmed)
}

// IsValid reports whether the category is one of the defined values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFiction, CategoryNonFiction, CategoryTechnical, CategoryChildren:
		return true
	default:
		return false
	}
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*c = ParseCategory(name)
	return nil
}

// Order is a catalog entry persisted by the repository.
type Order struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PublishedDate time.Time       `json:"published_date"`
	CoverImageURL *string         `json:"cover_image_url,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// ISBNKey returns the normalized ISBN used for uniqueness comparisons.
func (o Order) ISBNKey() string {
	return NormalizeISBN(o.ISBN)
}

package http

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/shopspring/decimal"
)

var errPublishedDateFormat = errors.New("published date must be RFC 3339 or YYYY-MM-DD")

type createOrderBody struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	Category      domain.Category `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PublishedDate string          `json:"publishedDate"`
	CoverImageURL *string         `json:"coverImageUrl"`
	StockQuantity int             `json:"stockQuantity"`
}

func (b createOrderBody) toRequest() (domain.CreateOrderRequest, error) {
	published, err := parsePublishedDate(b.PublishedDate)
	if err != nil {
		return domain.CreateOrderRequest{}, err
	}

	req := domain.CreateOrderRequest{
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Category:      b.Category,
		Price:         b.Price,
		PublishedDate: published,
		StockQuantity: b.StockQuantity,
	}
	if b.CoverImageURL != nil {
		req.CoverImageURL = *b.CoverImageURL
	}
	return req, nil
}

// parsePublishedDate accepts a full timestamp or a bare calendar date, which
// is read as midnight UTC. An empty value yields the zero time.
func parsePublishedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, errPublishedDateFormat
}

type profileResponse struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Author              string          `json:"author"`
	ISBN                string          `json:"isbn"`
	Category            domain.Category `json:"category"`
	CategoryDisplayName string          `json:"categoryDisplayName"`
	FormattedPrice      string          `json:"formattedPrice"`
	PublishedAge        string          `json:"publishedAge"`
	AuthorInitials      string          `json:"authorInitials"`
	AvailabilityStatus  string          `json:"availabilityStatus"`
	Price               json.Number     `json:"price"`
	CoverImageURL       *string         `json:"coverImageUrl"`
	StockQuantity       int             `json:"stockQuantity"`
	PublishedDate       time.Time       `json:"publishedDate"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func toProfileResponse(p domain.OrderProfile) profileResponse {
	return profileResponse{
		ID:                  p.ID,
		Title:               p.Title,
		Author:              p.Author,
		ISBN:                p.ISBN,
		Category:            p.Category,
		CategoryDisplayName: p.CategoryDisplayName,
		FormattedPrice:      p.FormattedPrice,
		PublishedAge:        p.PublishedAge,
		AuthorInitials:      p.AuthorInitials,
		AvailabilityStatus:  p.AvailabilityStatus,
		Price:               json.Number(p.Price.StringFixed(2)),
		CoverImageURL:       p.CoverImageURL,
		StockQuantity:       p.StockQuantity,
		PublishedDate:       p.PublishedDate,
		CreatedAt:           p.CreatedAt,
	}
}

type errorResponse struct {
	Error   string           `json:"error"`
	Details []domain.Failure `json:"details,omitempty"`
}

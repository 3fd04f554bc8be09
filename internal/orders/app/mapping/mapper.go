// Package mapping converts between creation requests, stored orders and
// their display profiles. Every function is pure: identity and time are
// supplied by the caller.
package mapping

import (
	"strings"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// ToOrder builds the entity persisted for a validated request.
func ToOrder(req domain.CreateOrderRequest, id string, now time.Time) domain.Order {
	var cover *string
	if url := strings.TrimSpace(req.CoverImageURL); url != "" {
		cover = &url
	}

	return domain.Order{
		ID:            id,
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		ISBN:          strings.TrimSpace(req.ISBN),
		Category:      req.Category,
		Price:         req.Price,
		PublishedDate: req.PublishedDate.UTC(),
		CoverImageURL: cover,
		StockQuantity: req.StockQuantity,
		IsAvailable:   req.StockQuantity > 0,
		CreatedAt:     now.UTC(),
	}
}

// ToProfile renders the display representation of an order as of now.
func ToProfile(o domain.Order, now time.Time) domain.OrderProfile {
	return domain.OrderProfile{
		ID:                  o.ID,
		Title:               o.Title,
		Author:              o.Author,
		ISBN:                o.ISBN,
		Category:            o.Category,
		CategoryDisplayName: CategoryDisplayName(o.Category),
		FormattedPrice:      FormatPrice(EffectivePrice(o)),
		PublishedAge:        PublishedAge(o.PublishedDate, now),
		AuthorInitials:      AuthorInitials(o.Author),
		AvailabilityStatus:  AvailabilityStatus(o),
		Price:               EffectivePrice(o),
		CoverImageURL:       CoverImage(o),
		StockQuantity:       o.StockQuantity,
		PublishedDate:       o.PublishedDate,
		CreatedAt:           o.CreatedAt,
	}
}

// ToProfiles maps every order, preserving order.
func ToProfiles(orders []domain.Order, now time.Time) []domain.OrderProfile {
	profiles := make([]domain.OrderProfile, 0, len(orders))
	for _, o := range orders {
		profiles = append(profiles, ToProfile(o, now))
	}
	return profiles
}

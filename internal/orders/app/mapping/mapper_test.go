package mapping_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dejobratic/catalog/internal/orders/app/mapping"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func TestToOrder(t *testing.T) {
	req := domain.CreateOrderRequest{
		Title:         "  advanced software engineering  ",
		Author:        "john smith",
		ISBN:          "978-0-123456-47-2",
		Category:      domain.CategoryTechnical,
		Price:         decimal.RequireFromString("45.99"),
		PublishedDate: now.AddDate(0, -6, 0),
		CoverImageURL: "https://example.com/cover.jpg",
		StockQuantity: 8,
	}

	order := mapping.ToOrder(req, "order-1", now)

	if order.ID != "order-1" {
		t.Errorf("expected id order-1, got %s", order.ID)
	}
	if order.Title != "advanced software engineering" {
		t.Errorf("expected trimmed title, got %q", order.Title)
	}
	if !order.CreatedAt.Equal(now) {
		t.Errorf("expected created at %v, got %v", now, order.CreatedAt)
	}
	if order.UpdatedAt != nil {
		t.Error("expected no update timestamp")
	}
	if !order.IsAvailable {
		t.Error("expected order with stock to be available")
	}
	if order.CoverImageURL == nil || *order.CoverImageURL != req.CoverImageURL {
		t.Errorf("expected cover url to be copied, got %v", order.CoverImageURL)
	}

	t.Run("zero stock is unavailable", func(t *testing.T) {
		req := req
		req.StockQuantity = 0
		if mapping.ToOrder(req, "order-2", now).IsAvailable {
			t.Error("expected order without stock to be unavailable")
		}
	})

	t.Run("blank cover url is absent", func(t *testing.T) {
		req := req
		req.CoverImageURL = "   "
		if mapping.ToOrder(req, "order-3", now).CoverImageURL != nil {
			t.Error("expected nil cover url")
		}
	})
}

func TestToProfile(t *testing.T) {
	t.Run("technical order keeps listed price", func(t *testing.T) {
		order := domain.Order{
			ID:            "order-1",
			Title:         "advanced software engineering algorithms",
			Author:        "john smith",
			Category:      domain.CategoryTechnical,
			Price:         decimal.RequireFromString("45.99"),
			PublishedDate: now.AddDate(0, -6, 0),
			CoverImageURL: ptr("https://example.com/cover.jpg"),
			StockQuantity: 8,
			IsAvailable:   true,
		}

		profile := mapping.ToProfile(order, now)

		if profile.CategoryDisplayName != "technical & professional" {
			t.Errorf("unexpected display name %q", profile.CategoryDisplayName)
		}
		if profile.FormattedPrice != "$45.99" {
			t.Errorf("expected $45.99, got %q", profile.FormattedPrice)
		}
		if !profile.Price.Equal(order.Price) {
			t.Errorf("expected price %s, got %s", order.Price, profile.Price)
		}
		if profile.AuthorInitials != "JS" {
			t.Errorf("expected JS, got %q", profile.AuthorInitials)
		}
		if !strings.Contains(profile.PublishedAge, "months old") {
			t.Errorf("expected months old, got %q", profile.PublishedAge)
		}
		if profile.AvailabilityStatus != "in stock" {
			t.Errorf("expected in stock, got %q", profile.AvailabilityStatus)
		}
		if profile.CoverImageURL == nil || *profile.CoverImageURL != "https://example.com/cover.jpg" {
			t.Errorf("expected cover url to pass through, got %v", profile.CoverImageURL)
		}
	})

	t.Run("children order is discounted and hides cover", func(t *testing.T) {
		order := domain.Order{
			ID:            "order-2",
			Title:         "fun adventure story",
			Author:        "mary johnson",
			Category:      domain.CategoryChildren,
			Price:         decimal.RequireFromString("20.00"),
			PublishedDate: now.AddDate(0, -2, 0),
			CoverImageURL: ptr("https://example.com/kids-cover.jpg"),
			StockQuantity: 10,
			IsAvailable:   true,
		}

		profile := mapping.ToProfile(order, now)

		if !profile.Price.Equal(decimal.RequireFromString("18.00")) {
			t.Errorf("expected 18.00, got %s", profile.Price)
		}
		if profile.FormattedPrice != "$18.00" {
			t.Errorf("expected $18.00, got %q", profile.FormattedPrice)
		}
		if profile.CoverImageURL != nil {
			t.Errorf("expected cover url to be suppressed, got %q", *profile.CoverImageURL)
		}
		if profile.CategoryDisplayName != "children's orders" {
			t.Errorf("unexpected display name %q", profile.CategoryDisplayName)
		}
	})

	t.Run("mapping is repeatable", func(t *testing.T) {
		order := domain.Order{
			ID:            "order-3",
			Title:         "a",
			Author:        "Madonna",
			Category:      domain.CategoryFiction,
			Price:         decimal.RequireFromString("9.50"),
			PublishedDate: now.AddDate(-3, 0, 0),
			StockQuantity: 1,
			IsAvailable:   true,
		}

		first := mapping.ToProfile(order, now)
		second := mapping.ToProfile(order, now)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("expected identical profiles, got %+v and %+v", first, second)
		}
	})
}

func TestCategoryDisplayName(t *testing.T) {
	tests := []struct {
		category domain.Category
		want     string
	}{
		{domain.CategoryFiction, "fiction & literature"},
		{domain.CategoryNonFiction, "non-fiction"},
		{domain.CategoryTechnical, "technical & professional"},
		{domain.CategoryChildren, "children's orders"},
		{domain.Category("Poetry"), "uncategorized"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := mapping.CategoryDisplayName(tt.category); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorInitials(t *testing.T) {
	tests := []struct {
		author string
		want   string
	}{
		{"john smith", "JS"},
		{"John Ronald Reuel Tolkien", "JT"},
		{"  ursula   le guin ", "UG"},
		{"Madonna", "M"},
		{"", "?"},
		{"   ", "?"},
		{"émile zola", "ÉZ"},
	}

	for _, tt := range tests {
		t.Run(tt.author, func(t *testing.T) {
			if got := mapping.AuthorInitials(tt.author); got != tt.want {
				t.Errorf("AuthorInitials(%q) = %q, want %q", tt.author, got, tt.want)
			}
		})
	}
}

func TestPublishedAge(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		name string
		days int
		want string
	}{
		{"today", 0, "New Release"},
		{"29 days", 29, "New Release"},
		{"30 days", 30, "1 months old"},
		{"59 days", 59, "1 months old"},
		{"60 days", 60, "2 months old"},
		{"364 days", 364, "12 months old"},
		{"365 days", 365, "1 years old"},
		{"1824 days", 1824, "4 years old"},
		{"1825 days", 1825, "Classic"},
		{"1826 days", 1826, "5 years old"},
		{"3650 days", 3650, "10 years old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			published := now.Add(-time.Duration(tt.days) * day)
			if got := mapping.PublishedAge(published, now); got != tt.want {
				t.Errorf("PublishedAge(%d days) = %q, want %q", tt.days, got, tt.want)
			}
		})
	}

	t.Run("partial days are truncated", func(t *testing.T) {
		published := now.Add(-(29*day + 23*time.Hour))
		if got := mapping.PublishedAge(published, now); got != "New Release" {
			t.Errorf("expected New Release, got %q", got)
		}
	})

	t.Run("centuries old", func(t *testing.T) {
		published := time.Date(1450, 1, 1, 0, 0, 0, 0, time.UTC)
		got := mapping.PublishedAge(published, now)
		if got != "575 years old" {
			t.Errorf("expected 575 years old, got %q", got)
		}
	})
}

func TestAvailabilityStatus(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		stock     int
		want      string
	}{
		{"not available", false, 0, "out of stock"},
		{"flagged available without stock", true, 0, "unavailable"},
		{"single copy", true, 1, "last copy"},
		{"five copies", true, 5, "limited stock"},
		{"six copies", true, 6, "in stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{IsAvailable: tt.available, StockQuantity: tt.stock}
			if got := mapping.AvailabilityStatus(order); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"45.99", "$45.99"},
		{"18", "$18.00"},
		{"0.5", "$0.50"},
		{"19.999", "$20.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := mapping.FormatPrice(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("FormatPrice(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

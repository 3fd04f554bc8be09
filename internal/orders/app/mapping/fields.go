package mapping

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const secondsPerDay = 24 * 60 * 60

var childrenDiscount = decimal.RequireFromString("0.9")

// CategoryDisplayName returns the lower-case label shown for a category.
func CategoryDisplayName(c domain.Category) string {
	switch c {
	case domain.CategoryFiction:
		return "fiction & literature"
	case domain.CategoryNonFiction:
		return "non-fiction"
	case domain.CategoryTechnical:
		return "technical & professional"
	case domain.CategoryChildren:
		return "children's orders"
	default:
		return "uncategorized"
	}
}

// EffectivePrice applies the children's discount; other categories keep the listed price.
func EffectivePrice(o domain.Order) decimal.Decimal {
	if o.Category == domain.CategoryChildren {
		return o.Price.Mul(childrenDiscount)
	}
	return o.Price
}

// FormatPrice renders an amount as US dollars with two decimals.
func FormatPrice(amount decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%.2f", amount.Round(2).InexactFloat64())
}

// AuthorInitials returns the upper-cased first letters of the first and last
// name parts, a single letter for one-part names, or "?" when empty.
func AuthorInitials(author string) string {
	parts := strings.Fields(author)
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		return firstLetter(parts[0])
	default:
		return firstLetter(parts[0]) + firstLetter(parts[len(parts)-1])
	}
}

func firstLetter(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// PublishedAge buckets the time since publication into a label.
func PublishedAge(published, now time.Time) string {
	// Unix seconds rather than time.Duration, which saturates at ~292 years.
	days := int((now.Unix() - published.Unix()) / secondsPerDay)

	switch {
	case days < 30:
		return "New Release"
	case days < 365:
		return strconv.Itoa(max(1, days/30)) + " months old"
	case days == 1825:
		return "Classic"
	default:
		return strconv.Itoa(max(1, days/365)) + " years old"
	}
}

// AvailabilityStatus describes the stock level of an order.
func AvailabilityStatus(o domain.Order) string {
	switch {
	case !o.IsAvailable:
		return "out of stock"
	case o.StockQuantity == 0:
		return "unavailable"
	case o.StockQuantity == 1:
		return "last copy"
	case o.StockQuantity <= 5:
		return "limited stock"
	default:
		return "in stock"
	}
}

// CoverImage hides the cover of children's orders.
func CoverImage(o domain.Order) *string {
	if o.Category == domain.CategoryChildren || o.CoverImageURL == nil {
		return nil
	}
	url := *o.CoverImageURL
	return &url
}

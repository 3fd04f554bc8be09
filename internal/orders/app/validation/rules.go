package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/shopspring/decimal"
)

// Rules holds the tunable parameters of order validation.
type Rules struct {
	InappropriateWords         []string
	TechnicalKeywords          []string
	ChildrenInappropriateWords []string
	DailyLimit                 int
}

// DefaultRules returns the rule parameters used in production.
func DefaultRules() Rules {
	return Rules{
		InappropriateWords:         []string{"badword1", "badword2", "offensive"},
		TechnicalKeywords:          []string{"programming", "algorithm", "software", "database", "technical", "engineering", "computer", "code"},
		ChildrenInappropriateWords: []string{"violence", "adult", "scary", "horror"},
		DailyLimit:                 500,
	}
}

var (
	authorPattern   = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	earliestPublish = time.Date(1400, 1, 1, 0, 0, 0, 0, time.UTC)

	maxPrice          = decimal.NewFromInt(10000)
	minTechnicalPrice = decimal.NewFromInt(20)
	maxChildrenPrice  = decimal.NewFromInt(50)
	expensivePrice    = decimal.NewFromInt(100)
	highValuePrice    = decimal.NewFromInt(500)
)

const (
	maxTitleLength    = 200
	minAuthorLength   = 2
	maxAuthorLength   = 100
	minFictionAuthor  = 5
	maxStockQuantity  = 100000
	expensiveMaxStock = 20
	highValueMaxStock = 10
	technicalMaxAge   = 5
)

// input is what every rule inspects: the request, the evaluation time and
// the outcome of the checks that consult shared state.
type input struct {
	req         domain.CreateOrderRequest
	title       string
	author      string
	now         time.Time
	titleTaken  bool
	isbnTaken   bool
	businessErr string
}

// rule is a predicate plus the failure it produces.
type rule struct {
	field   string
	message string
	err     error
	when    func(in input) bool
	broken  func(in input) bool
}

func (v *Validator) buildRules() []rule {
	rules := v.rules
	return []rule{
		{field: "title", message: "title is required", broken: func(in input) bool {
			return in.title == ""
		}},
		{field: "title", message: "title must not exceed 200 characters", broken: func(in input) bool {
			return utf8.RuneCountInString(in.title) > maxTitleLength
		}},
		{field: "title", message: "title contains inappropriate content", broken: func(in input) bool {
			return containsAny(in.title, rules.InappropriateWords)
		}},
		{field: "title", message: "title already exists for this author", err: domain.ErrNotUnique, broken: func(in input) bool {
			return in.titleTaken
		}},

		{field: "author", message: "author is required", broken: func(in input) bool {
			return in.author == ""
		}},
		{field: "author", message: "author must be at least 2 characters", when: hasAuthor, broken: func(in input) bool {
			return utf8.RuneCountInString(in.author) < minAuthorLength
		}},
		{field: "author", message: "author must not exceed 100 characters", broken: func(in input) bool {
			return utf8.RuneCountInString(in.author) > maxAuthorLength
		}},
		{field: "author", message: "author name contains invalid characters", when: hasAuthor, broken: func(in input) bool {
			return !authorPattern.MatchString(in.author)
		}},

		{field: "isbn", message: "isbn is required", broken: func(in input) bool {
			return strings.TrimSpace(in.req.ISBN) == ""
		}},
		{field: "isbn", message: "isbn format is invalid", when: hasISBN, broken: func(in input) bool {
			return !domain.IsWellFormedISBN(strings.TrimSpace(in.req.ISBN))
		}},
		{field: "isbn", message: "isbn already exists", err: domain.ErrNotUnique, broken: func(in input) bool {
			return in.isbnTaken
		}},

		{field: "category", message: "category must be valid", broken: func(in input) bool {
			return !in.req.Category.IsValid()
		}},

		{field: "price", message: "price must be greater than 0", broken: func(in input) bool {
			return !in.req.Price.IsPositive()
		}},
		{field: "price", message: "price must be less than 10000", broken: func(in input) bool {
			return in.req.Price.GreaterThanOrEqual(maxPrice)
		}},

		{field: "publishedDate", message: "published date cannot be in the future", broken: func(in input) bool {
			return in.req.PublishedDate.After(in.now)
		}},
		{field: "publishedDate", message: "published date cannot be before year 1400", broken: func(in input) bool {
			return in.req.PublishedDate.Before(earliestPublish)
		}},

		{field: "stockQuantity", message: "stock quantity cannot be negative", broken: func(in input) bool {
			return in.req.StockQuantity < 0
		}},
		{field: "stockQuantity", message: "stock quantity cannot exceed 100000", broken: func(in input) bool {
			return in.req.StockQuantity > maxStockQuantity
		}},

		{field: "coverImageUrl", message: "cover image url must be valid", broken: func(in input) bool {
			cover := strings.TrimSpace(in.req.CoverImageURL)
			return cover != "" && !isImageURL(cover)
		}},

		{field: "", message: "order does not pass business rules", broken: func(in input) bool {
			return in.businessErr != ""
		}},

		{field: "price", message: "technical orders must have price of at least 20", when: isCategory(domain.CategoryTechnical), broken: func(in input) bool {
			return in.req.Price.LessThan(minTechnicalPrice)
		}},
		{field: "title", message: "technical orders must contain technical keywords", when: isCategory(domain.CategoryTechnical), broken: func(in input) bool {
			return !containsAny(in.title, rules.TechnicalKeywords)
		}},
		{field: "publishedDate", message: "technical orders must be published within last 5 years", when: isCategory(domain.CategoryTechnical), broken: func(in input) bool {
			return in.req.PublishedDate.Before(in.now.AddDate(-technicalMaxAge, 0, 0))
		}},

		{field: "price", message: "children orders must have price of at most 50", when: isCategory(domain.CategoryChildren), broken: func(in input) bool {
			return in.req.Price.GreaterThan(maxChildrenPrice)
		}},
		{field: "title", message: "title is not appropriate for children", when: isCategory(domain.CategoryChildren), broken: func(in input) bool {
			return containsAny(in.title, rules.ChildrenInappropriateWords)
		}},

		{field: "author", message: "fiction orders require full author name (minimum 5 characters)", when: isCategory(domain.CategoryFiction), broken: func(in input) bool {
			return utf8.RuneCountInString(in.author) < minFictionAuthor
		}},

		{field: "", message: "expensive orders (>100) must have limited stock (max 20 units)", broken: func(in input) bool {
			return in.req.Price.GreaterThan(expensivePrice) && in.req.StockQuantity > expensiveMaxStock
		}},
	}
}

// businessRuleViolation returns the reason a request breaks a cross-field
// business rule, or "" when it passes.
func businessRuleViolation(req domain.CreateOrderRequest, todayCount int, rules Rules) string {
	switch {
	case todayCount >= rules.DailyLimit:
		return "daily order limit reached"
	case req.Category == domain.CategoryTechnical && req.Price.LessThan(minTechnicalPrice):
		return "technical order price too low"
	case req.Category == domain.CategoryChildren && containsAny(req.Title, rules.ChildrenInappropriateWords):
		return "children order contains inappropriate word"
	case req.Price.GreaterThan(highValuePrice) && req.StockQuantity > highValueMaxStock:
		return "high-value order exceeds stock limit"
	default:
		return ""
	}
}

func hasAuthor(in input) bool { return in.author != "" }

func hasISBN(in input) bool { return strings.TrimSpace(in.req.ISBN) != "" }

func isCategory(c domain.Category) func(in input) bool {
	return func(in input) bool { return in.req.Category == c }
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func isImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

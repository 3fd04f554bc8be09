package domain

import "strings"

// NormalizeISBN strips hyphens and spaces and upper-cases the remainder.
// Two ISBNs refer to the same order when their normalized forms are equal.
func NormalizeISBN(isbn string) string {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
	return strings.ToUpper(cleaned)
}

// IsWellFormedISBN reports whether isbn reduces to exactly 10 or 13 digits.
func IsWellFormedISBN(isbn string) bool {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package search implements literal, case-insensitive substring matching over
// product name and description. The store query and the storefront filter
// share Pattern, so both fold case the same way: per rune, with Unicode
// simple folding. Lowercasing that changes the rune count (İ becomes i̇) does
// not count as a match.
package search

import (
	"context"
	"regexp"
	"strings"

	"storefront/models"
)

// MaxResults bounds the store-level search
const MaxResults = 120

// Normalize trims the query and lowercases it
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Pattern returns the escaped regex for a query, suitable for a
// case-insensitive store query. Metacharacters match literally.
func Pattern(query string) string {
	return regexp.QuoteMeta(strings.TrimSpace(query))
}

// Matcher compiles query into the predicate the store query applies. An
// empty query matches everything.
func Matcher(query string) func(models.Product) bool {
	if Normalize(query) == "" {
		return func(models.Product) bool { return true }
	}
	re := regexp.MustCompile("(?i)" + Pattern(query))
	return func(p models.Product) bool {
		return re.MatchString(p.Name) || re.MatchString(p.Description)
	}
}

// Matches reports whether the product's name or description contains query
func Matches(p models.Product, query string) bool {
	return Matcher(query)(p)
}

// Filter keeps the matching products in their original order. A blank
// query returns the list unchanged.
func Filter(products []models.Product, query string) []models.Product {
	if Normalize(query) == "" {
		return products
	}
	match := Matcher(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Store runs the escaped pattern query, newest first
type Store interface {
	Search(ctx context.Context, pattern string, limit int64) ([]models.Product, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Search returns up to MaxResults matching products, newest first. A blank
// query returns an empty result without touching the store.
func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	if Normalize(query) == "" {
		return []models.Product{}, nil
	}
	return s.store.Search(ctx, Pattern(query), MaxResults)
}

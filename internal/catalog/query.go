package catalog

import (
	"sort"
	"strings"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

// SortPolicy selects the ordering of a catalog view.
type SortPolicy string

const (
	SortPopular   SortPolicy = "popular"
	SortPriceLow  SortPolicy = "price_low"
	SortPriceHigh SortPolicy = "price_high"
)

// ParseSortPolicy maps a request value to a policy; unknown values fall back to popular.
func ParseSortPolicy(v string) SortPolicy {
	switch SortPolicy(strings.ToLower(strings.TrimSpace(v))) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	default:
		return SortPopular
	}
}

// Query describes one catalog view request.
type Query struct {
	Category   string
	SearchTerm string
	SortBy     SortPolicy
	Page       int
	PageSize   int
}

// Result is the derived view for a Query.
type Result struct {
	TotalMatching int              `json:"totalMatching"`
	PageItems     []models.Product `json:"pageItems"`
}

// Run filters by category, then by search term, stable-sorts and slices the
// requested page. TotalMatching counts matches before slicing. Pages outside
// the result (including page < 1 or pageSize < 1) yield an empty slice.
func Run(products []models.Product, q Query) Result {
	matched := filterCategory(products, q.Category)
	matched = filterSearch(matched, q.SearchTerm)
	sortProducts(matched, q.SortBy)

	return Result{
		TotalMatching: len(matched),
		PageItems:     paginate(matched, q.Page, q.PageSize),
	}
}

// Categories returns "all" followed by the distinct categories in first-seen order.
func Categories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{models.CategoryAll}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		if p.Category == models.CategoryAll {
			continue
		}
		out = append(out, p.Category)
	}
	return out
}

// TotalPages is ceil(total/pageSize), 0 for an empty result.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage keeps page inside [1, TotalPages]. Run itself never clamps;
// callers that want a non-empty page use this first.
func ClampPage(page, total, pageSize int) int {
	last := TotalPages(total, pageSize)
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page
}

// filterCategory always returns a fresh slice so sorting never touches the snapshot.
func filterCategory(products []models.Product, category string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category == models.CategoryAll || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func filterSearch(products []models.Product, term string) []models.Product {
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	out := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(products []models.Product, policy SortPolicy) {
	switch policy {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].FiatPrice < products[j].FiatPrice
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].FiatPrice > products[j].FiatPrice
		})
	}
}

func paginate(products []models.Product, page, pageSize int) []models.Product {
	if page < 1 || pageSize < 1 || page > TotalPages(len(products), pageSize) {
		return []models.Product{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

package catalog

import (
	"sort"
	"strings"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// SortOrder enumerates the supported catalog sort modes.
type SortOrder string

const (
	// SortNone preserves the catalog's original order.
	SortNone SortOrder = "none"
	// SortPriceAsc orders by unit price, cheapest first.
	SortPriceAsc SortOrder = "price_asc"
	// SortPriceDesc orders by unit price, most expensive first.
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSortOrder maps a wire value to a SortOrder. Unknown values fall back
// to SortNone rather than erroring, consistent with the silent-reject policy
// of the cart operations.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// FilterState holds the three filter inputs applied to the catalog. The zero
// value filters nothing: empty search matches every title and an empty or
// "all" category matches every category.
type FilterState struct {
	Search   string
	Category string
	Sort     SortOrder
}

// matchesCategory reports whether the category filter admits c.
func (f FilterState) matchesCategory(c string) bool {
	return f.Category == "" || f.Category == CategoryAll || f.Category == c
}

// VisibleProducts returns the ordered subset of products admitted by the
// filter state. The search text is matched as a case-insensitive literal
// substring of the title, never as a pattern. Filtering preserves catalog
// order; price sorting is stable, so equal prices keep their relative order.
// The input slice is never modified and the result is always freshly
// allocated, so callers may retain it.
func VisibleProducts(products []Product, f FilterState) []Product {
	needle := strings.ToLower(f.Search)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if !f.matchesCategory(p.Category) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.GreaterThan(out[j].Price)
		})
	}

	return out
}

// Categories returns the values for the category selector: the CategoryAll
// sentinel followed by each distinct category in first-seen catalog order.
// It depends only on the catalog, so callers recompute it when the catalog
// changes, not on every filter change.
func Categories(products []Product) []string {
	out := []string{CategoryAll}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

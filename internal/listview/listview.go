// Package listview implements the shared admin-list pattern: client-side
// filtering plus fixed-page-size slicing over a collection fetched once.
package listview

import "strings"

// Page sizes used by the individual screens.
const (
	ProductsPageSize = 4
	CatalogPageSize  = 9
	UsersPageSize    = 10
)

// View filters and pages an in-memory collection. Changing any filter
// resets the current page to 1; navigation past either edge is a no-op.
type View[T any] struct {
	pageSize int
	items    []T

	searchFields func(T) []string
	categoryOf   func(T) string
	dateOf       func(T) string

	search     string
	category   string
	datePrefix string
	page       int
}

// New creates a view with the given page size. searchFields extracts the
// string fields matched by the free-text filter; it may be nil.
func New[T any](pageSize int, searchFields func(T) []string) *View[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &View[T]{
		pageSize:     pageSize,
		searchFields: searchFields,
		page:         1,
	}
}

// WithCategoryField enables the exact-match categorical filter.
func (v *View[T]) WithCategoryField(fn func(T) string) *View[T] {
	v.categoryOf = fn
	return v
}

// WithDateField enables the date-prefix filter.
func (v *View[T]) WithDateField(fn func(T) string) *View[T] {
	v.dateOf = fn
	return v
}

// SetItems replaces the collection and resets to page 1.
func (v *View[T]) SetItems(items []T) {
	v.items = items
	v.page = 1
}

// SetSearch sets the case-insensitive substring filter and resets the page.
func (v *View[T]) SetSearch(query string) {
	v.search = strings.ToLower(query)
	v.page = 1
}

// SetCategory sets the exact-match filter and resets the page. An empty
// value clears the filter.
func (v *View[T]) SetCategory(value string) {
	v.category = value
	v.page = 1
}

// SetDatePrefix sets the date-prefix filter and resets the page.
func (v *View[T]) SetDatePrefix(prefix string) {
	v.datePrefix = prefix
	v.page = 1
}

// matches applies all active filters; they combine with AND.
func (v *View[T]) matches(item T) bool {
	if v.search != "" && v.searchFields != nil {
		found := false
		for _, field := range v.searchFields(item) {
			if strings.Contains(strings.ToLower(field), v.search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if v.category != "" && v.categoryOf != nil {
		if v.categoryOf(item) != v.category {
			return false
		}
	}
	if v.datePrefix != "" && v.dateOf != nil {
		if !strings.HasPrefix(v.dateOf(item), v.datePrefix) {
			return false
		}
	}
	return true
}

// Filtered returns the items passing every active filter.
func (v *View[T]) Filtered() []T {
	filtered := make([]T, 0, len(v.items))
	for _, item := range v.items {
		if v.matches(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// TotalPages returns the page count for the filtered collection.
func (v *View[T]) TotalPages() int {
	n := len(v.Filtered())
	return (n + v.pageSize - 1) / v.pageSize
}

// PageNumber returns the current page, 1-based.
func (v *View[T]) PageNumber() int {
	return v.page
}

// SetPage moves to page n, clamped to the valid range.
func (v *View[T]) SetPage(n int) {
	last := v.TotalPages()
	if last < 1 {
		last = 1
	}
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	v.page = n
}

// Next advances one page; at the last page it is a no-op.
func (v *View[T]) Next() {
	if v.page < v.TotalPages() {
		v.page++
	}
}

// Prev goes back one page; at page 1 it is a no-op.
func (v *View[T]) Prev() {
	if v.page > 1 {
		v.page--
	}
}

// Page returns the current fixed-size window of the filtered collection.
func (v *View[T]) Page() []T {
	filtered := v.Filtered()
	start := (v.page - 1) * v.pageSize
	if start >= len(filtered) {
		return []T{}
	}
	end := start + v.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

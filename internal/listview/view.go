// Package listview implements the client-side filter, sort and paginate
// pipeline shared by every list command.
package listview

import (
	"slices"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort selects the column a view is ordered by.
type Sort struct {
	Key       string
	Direction Direction
}

// Toggle flips the direction when key is already the sort key, and otherwise
// sorts ascending by key.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		if s.Direction == Desc {
			return Sort{Key: key, Direction: Asc}
		}
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// Compare orders two rows, negative when a sorts first.
type Compare[T any] func(a, b T) int

// Page is one page of a view.
type Page[T any] struct {
	Rows     []T
	Page     int
	PageSize int
	Total    int
	Pages    int
}

// View holds a collection together with its filter, sort and page.
type View[T any] struct {
	items    []T
	filter   func(T) bool
	sort     Sort
	keys     map[string]Compare[T]
	page     int
	pageSize int
}

// New creates a view over items. keys maps the sortable column names to
// their comparators; an unknown sort key leaves rows in their fetched order.
func New[T any](items []T, keys map[string]Compare[T], pageSize int) *View[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &View[T]{items: items, keys: keys, page: 1, pageSize: pageSize}
}

// SetItems replaces the collection.
func (v *View[T]) SetItems(items []T) { v.items = items }

// Items returns the unfiltered collection.
func (v *View[T]) Items() []T { return v.items }

// SetFilter installs the row predicate. nil keeps every row.
func (v *View[T]) SetFilter(fn func(T) bool) { v.filter = fn }

// SetSort sets the sort order.
func (v *View[T]) SetSort(s Sort) { v.sort = s }

// Sort returns the current sort order.
func (v *View[T]) Sort() Sort { return v.sort }

// ToggleSort applies Sort.Toggle to the current order.
func (v *View[T]) ToggleSort(key string) { v.sort = v.sort.Toggle(key) }

// SetPage selects a 1-based page.
func (v *View[T]) SetPage(page int) { v.page = page }

// SetPageSize changes the page size.
func (v *View[T]) SetPageSize(size int) {
	if size > 0 {
		v.pageSize = size
	}
}

// Filtered returns every row that passes the filter, in sort order.
func (v *View[T]) Filtered() []T {
	out := make([]T, 0, len(v.items))
	for _, item := range v.items {
		if v.filter == nil || v.filter(item) {
			out = append(out, item)
		}
	}
	if cmp, ok := v.keys[v.sort.Key]; ok && cmp != nil {
		desc := v.sort.Direction == Desc
		slices.SortStableFunc(out, func(a, b T) int {
			if desc {
				return -cmp(a, b)
			}
			return cmp(a, b)
		})
	}
	return out
}

// Rows applies filter, then sort, then slices out the current page. A page
// beyond the last one resets to the first.
func (v *View[T]) Rows() Page[T] {
	rows := v.Filtered()
	total := len(rows)
	pages := (total + v.pageSize - 1) / v.pageSize
	if pages < 1 {
		pages = 1
	}
	if v.page < 1 || v.page > pages {
		v.page = 1
	}

	start := (v.page - 1) * v.pageSize
	end := start + v.pageSize
	if end > total {
		end = total
	}
	return Page[T]{
		Rows:     rows[start:end],
		Page:     v.page,
		PageSize: v.pageSize,
		Total:    total,
		Pages:    pages,
	}
}

// Package paginate slices ordered collections into pages and renders the
// labels shown next to a paged table.
package paginate

import "fmt"

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Page is one window over a collection. Index is zero-based.
type Page[T any] struct {
	Items     []T `json:"items"`
	Index     int `json:"page"`
	Size      int `json:"page_size"`
	Total     int `json:"total"`
	LastIndex int `json:"last_page"`
}

// Normalize clamps a requested page index and size to usable values: a
// negative index becomes 0, a non-positive size becomes DefaultPageSize and
// sizes above MaxPageSize are capped.
func Normalize(index, size int) (int, int) {
	if index < 0 {
		index = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return index, size
}

// Slice returns page index of items. Pages past the end are empty but keep
// Total and LastIndex so callers can still render labels.
func Slice[T any](items []T, index, size int) Page[T] {
	index, size = Normalize(index, size)
	p := Page[T]{
		Index:     index,
		Size:      size,
		Total:     len(items),
		LastIndex: LastIndex(len(items), size),
		Items:     []T{},
	}
	if len(items) == 0 || index > p.LastIndex {
		return p
	}
	start := index * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = append(p.Items, items[start:end]...)
	return p
}

// LastIndex is the zero-based index of the last page holding items; an empty
// collection has last index 0.
func LastIndex(length, size int) int {
	if size <= 0 || length == 0 {
		return 0
	}
	return (length - 1) / size
}

// RangeLabel renders "page of lastIndex", the compact label used under the
// hero table.
func RangeLabel(index, size, length int) string {
	return fmt.Sprintf("%d of %d", index, LastIndex(length, size))
}

// Summary renders "Showing a - b of n heroes." for the current page.
func Summary(index, size, length int) string {
	index, size = Normalize(index, size)
	if length <= 0 || index > LastIndex(length, size) {
		return fmt.Sprintf("Showing %d - %d of %d heroes.", length, length, length)
	}
	from := index*size + 1
	to := (index + 1) * size
	if to > length {
		to = length
	}
	return fmt.Sprintf("Showing %d - %d of %d heroes.", from, to, length)
}

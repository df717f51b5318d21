// Package page slices in-memory result sets into numbered pages.
package page

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to 1..maxLimit, using defLimit
// when limit is unset.
func Normalize(p Params, defLimit, maxLimit int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Result is one page of items plus totals.
type Result[T any] struct {
	Items      []T
	Total      int
	Page       int
	TotalPages int
}

// Slice returns the requested page of items. p must be normalized.
func Slice[T any](items []T, p Params) Result[T] {
	total := len(items)
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := min(start+p.Limit, total)
	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return Result[T]{
		Items:      pageItems,
		Total:      total,
		Page:       p.Page,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

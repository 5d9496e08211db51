// AngelaMos | 2026
// paginate.go

package paging

type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Paginate slices one page out of an already filtered and ordered sequence.
// Out of range inputs are clamped rather than rejected, and a page past the
// end yields no items with metadata still describing the full sequence.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	params := Params{Page: page, PageSize: pageSize}
	params.Normalize()

	total := len(items)
	meta := params.Result(total)

	start := params.Offset()
	if start >= total {
		return Page[T]{Items: []T{}, Pagination: meta}
	}

	end := start + params.PageSize
	if end > total {
		end = total
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{Items: window, Pagination: meta}
}

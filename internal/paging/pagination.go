// AngelaMos | 2026
// pagination.go

package paging

import (
	"errors"
	"math"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

var ErrInvalidPageSize = errors.New("items per page must be positive")

// Pagination is the metadata sent alongside a page of results. It never
// travels inside the item list.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

func New(currentPage, itemsPerPage, totalItems int) (Pagination, error) {
	if itemsPerPage <= 0 {
		return Pagination{}, ErrInvalidPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}

	return Pagination{
		CurrentPage:  currentPage,
		ItemsPerPage: itemsPerPage,
		TotalItems:   totalItems,
		TotalPages:   TotalPages(totalItems, itemsPerPage),
	}, nil
}

// TotalPages is ceil(totalItems / itemsPerPage), zero when there is nothing
// to page through.
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	// keeps (Page-1)*PageSize inside int
	if maxPage := math.MaxInt / p.PageSize; p.Page > maxPage {
		p.Page = maxPage
	}
}

func (p *Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Result builds the metadata for a normalized Params and a post-filter total.
func (p Params) Result(total int) Pagination {
	p.Normalize()
	//nolint:errcheck // Normalize guarantees a positive page size
	meta, _ := New(p.Page, p.PageSize, total)
	return meta
}

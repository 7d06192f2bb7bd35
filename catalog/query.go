package catalog

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Sort string

const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRating    Sort = "rating"
	SortSold      Sort = "sold"
)

// ParseSort maps user input to a Sort. Unknown values fall back to relevance.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortRating:
		return SortRating
	case SortSold:
		return SortSold
	default:
		return SortRelevance
	}
}

type Query struct {
	Text     string
	Category string
	Sort     Sort
	Page     int
	PageSize int
}

// Normalize fills paging defaults: page starts at 1, size defaults to
// DefaultPageSize and is capped at MaxPageSize.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Sort = ParseSort(string(q.Sort))
	return q
}

func (q Query) offset() int { return (q.Page - 1) * q.PageSize }

type Page struct {
	Items      []*Product
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int64
}

func newPage(q Query, items []*Product, total int64) Page {
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.PageSize)))
	}
	return Page{
		Items:      items,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}
}

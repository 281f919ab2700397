package models

import (
	"strconv"
	"strings"
)

// ProductPageSize is the fixed page size for product listings.
const ProductPageSize = 9

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []*Product `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
	TotalItems int        `json:"total_items"`
}

// HasNext reports whether a later page exists.
func (p *ProductPage) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p *ProductPage) HasPrev() bool { return p.Page > 1 }

// ResolvePage turns a raw page parameter into a valid page number for the
// given item count. It never fails: a non-numeric or missing parameter
// resolves to the first page, and an out-of-range number (including values
// below 1) resolves to the last page. An empty listing still has one page.
func ResolvePage(raw string, totalItems, pageSize int) (page, totalPages int) {
	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, totalPages
	}
	if n < 1 || n > totalPages {
		return totalPages, totalPages
	}
	return n, totalPages
}

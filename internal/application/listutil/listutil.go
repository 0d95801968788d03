package listutil

import (
	"strings"
)

// PageParams carries pagination parameters from the caller.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page; 0 means everything on one page
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// DefaultPerPage is the number of rows per page when paging is requested
// without a size.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// NormalizePage applies defaults to caller-supplied paging.
// POST: Page >= 1; PerPage is 0 or one of PerPageOptions
func NormalizePage(p PageParams) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage != 0 && !isValidPerPage(p.PerPage) {
		p.PerPage = DefaultPerPage
	}
	return p
}

// ParseSort returns value when it is one of allowed, else fallback.
func ParseSort(value string, allowed []string, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// Matches reports whether haystack contains needle, ignoring case. An empty
// needle matches everything.
func Matches(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0, page >= 1
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = max(total, 1)
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// ShowPagination returns true if there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Paginate slices rows down to the requested page.
// POST: len(result) <= info.PerPage
func Paginate[T any](rows []T, p PageParams) ([]T, PageInfo) {
	p = NormalizePage(p)
	info := NewPageInfo(p.Page, p.PerPage, len(rows))
	if len(rows) == 0 {
		return rows, info
	}
	return rows[info.Offset():info.EndRow()], info
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}

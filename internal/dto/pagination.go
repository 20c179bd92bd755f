package dto

import (
	"fmt"
	"strings"
)

// ── Pagination ──

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery shared list query parameters
type PageQuery struct {
	Page   int    `form:"page"   binding:"omitempty,min=1"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1,max=100"`
	SortBy string `form:"sortBy" binding:"omitempty,max=50"`
	Order  string `form:"order"  binding:"omitempty,sortorder"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// GetPage page number with default
func (q *PageQuery) GetPage() int {
	if q.Page <= 0 {
		return DefaultPage
	}
	return q.Page
}

// GetLimit page size with default, capped at MaxLimit
func (q *PageQuery) GetLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	if q.Limit > MaxLimit {
		return MaxLimit
	}
	return q.Limit
}

// GetOffset rows to skip
func (q *PageQuery) GetOffset() int {
	return (q.GetPage() - 1) * q.GetLimit()
}

// GetOrder "asc" or "desc", default desc
func (q *PageQuery) GetOrder() string {
	if strings.EqualFold(q.Order, "asc") {
		return "asc"
	}
	return "desc"
}

// OrderBy resolves sortBy against a whitelist of api field -> column.
// Unknown or empty sortBy falls back to defaultField.
func (q *PageQuery) OrderBy(columns map[string]string, defaultField string) string {
	col, ok := columns[q.SortBy]
	if !ok {
		col = columns[defaultField]
	}
	return fmt.Sprintf("%s %s", col, q.GetOrder())
}

// GetSearch trimmed search term
func (q *PageQuery) GetSearch() string {
	return strings.TrimSpace(q.Search)
}

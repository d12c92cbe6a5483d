package shared

import (
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page holds pagination and ordering options embedded by every typed filter.
type Page struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Normalize clamps page numbers and sizes and resolves OrderBy against a whitelist
// of API field names to column names. Unknown fields fall back to defaultColumn.
func (p Page) Normalize(allowed map[string]string, defaultColumn string) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	column, ok := allowed[p.OrderBy]
	if !ok {
		column = defaultColumn
	}
	p.OrderBy = column
	if strings.ToLower(p.OrderDir) == "asc" {
		p.OrderDir = "asc"
	} else {
		p.OrderDir = "desc"
	}
	return p
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// OrderClause renders "column dir" for a normalized page
func (p Page) OrderClause() string {
	return p.OrderBy + " " + p.OrderDir
}

// DateRange is an optional half-open [From, To) time window.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// NewDateRange turns inclusive calendar days into a half-open range in loc.
// Only the year, month and day of from and to are used.
func NewDateRange(from, to *time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.UTC
	}
	var r DateRange
	if from != nil {
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
		r.From = &start
	}
	if to != nil {
		end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		r.To = &end
	}
	return r
}

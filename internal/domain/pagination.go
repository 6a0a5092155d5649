package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page holds normalized page/limit values.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to >= 1 and limit to [1, MaxPageLimit], using
// DefaultPageLimit when limit is unset.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// NewPagination builds the pagination block for a listing of total rows.
func NewPagination(total int64, p Page) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

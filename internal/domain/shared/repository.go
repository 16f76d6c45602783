package shared

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is the list query accepted by catalog repositories. A zero
// CategoryID matches every category.
type Filter struct {
	Search     string
	CategoryID int64
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// DefaultFilter returns the first page ordered by id.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "id",
		OrderDir: "asc",
	}
}

// Offset returns the row offset of the filter's page.
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the page size capped at MaxPageSize, or 0 for no limit.
func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return 0
	}
	return min(f.PageSize, MaxPageSize)
}

// Descending reports whether results are sorted high to low.
func (f Filter) Descending() bool {
	return f.OrderDir == "desc" || f.OrderDir == "DESC"
}

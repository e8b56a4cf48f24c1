package ports

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// NormalizePage clamps a 1-based page and a page size to the values List
// actually serves.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

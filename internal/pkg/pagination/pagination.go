package pagination

const (
	// DefaultPageSize is used when the caller passes a page size below 1
	DefaultPageSize = 12
	// MaxPageSize caps every list call
	MaxPageSize = 100
)

// Normalize clamps page to >= 1 and pageSize to [1, MaxPageSize],
// substituting DefaultPageSize for non-positive sizes.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Range returns the zero-based inclusive row range for a 1-based page:
// [(page-1)*pageSize, page*pageSize-1].
func Range(page, pageSize int) (from, to int) {
	page, pageSize = Normalize(page, pageSize)
	from = (page - 1) * pageSize
	return from, from + pageSize - 1
}

// Offset returns the OFFSET/LIMIT pair equivalent to Range.
func Offset(page, pageSize int) (offset, limit int) {
	from, to := Range(page, pageSize)
	return from, to - from + 1
}

// TotalPages returns how many pages total rows span, never less than 1.
func TotalPages(total int64, pageSize int) int {
	_, pageSize = Normalize(1, pageSize)
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

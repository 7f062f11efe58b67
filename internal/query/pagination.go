package query

// Page sizes for the two listing modes. Narrow mode backs autocomplete
// widgets that only ever show a handful of rows.
const (
	pageSizeNormal = 10
	pageSizeNarrow = 5
)

// Pagination is a computed limit/offset pair.
type Pagination struct {
	Limit  int
	Offset int
}

// Paginate converts a 1-based page number into limit/offset. Missing or
// non-positive pages are treated as the first page.
func Paginate(page int, narrow bool) Pagination {
	limit := pageSizeNormal
	if narrow {
		limit = pageSizeNarrow
	}
	if page < 1 {
		page = 1
	}
	return Pagination{Limit: limit, Offset: (page - 1) * limit}
}

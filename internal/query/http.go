package query

import (
	"net/http"
	"strconv"
)

// ParseListQuery extracts the common listing options from a request's
// query string. Invalid page numbers degrade to the first page.
func ParseListQuery(r *http.Request) (page int, search string, sort SortSpec) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	return page, q.Get("search"), SortSpec{
		SortBy:  q.Get("sortBy"),
		SortDir: q.Get("sortDir"),
	}
}

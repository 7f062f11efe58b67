package shared

import "math"

// ListResult is the envelope returned by every table listing endpoint.
type ListResult[T any] struct {
	RowCount  int `json:"rowCount"`
	PageCount int `json:"pageCount"`
	Rows      []T `json:"rows"`
}

// NewListResult computes the page count from the page size actually used.
func NewListResult[T any](rows []T, total, pageSize int) ListResult[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	if rows == nil {
		rows = []T{}
	}
	return ListResult[T]{
		RowCount:  total,
		PageCount: int(math.Ceil(float64(total) / float64(pageSize))),
		Rows:      rows,
	}
}

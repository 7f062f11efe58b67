package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	assert.Equal(t, Pagination{Limit: 10, Offset: 20}, Paginate(3, false))
	assert.Equal(t, Pagination{Limit: 5, Offset: 0}, Paginate(1, true))
	assert.Equal(t, Pagination{Limit: 5, Offset: 10}, Paginate(3, true))
}

func TestPaginateNonPositivePageMeansFirstPage(t *testing.T) {
	assert.Equal(t, Pagination{Limit: 10, Offset: 0}, Paginate(0, false))
	assert.Equal(t, Pagination{Limit: 10, Offset: 0}, Paginate(-4, false))
}

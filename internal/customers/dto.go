package customers

import "github.com/vitrine-app/vitrine/internal/query"

type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type DeleteManyCustomersRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ListCustomersParams combines the query-string options with the filter
// body of POST /customers/list. Narrow selects autocomplete page sizing.
type ListCustomersParams struct {
	Page   int
	Search string
	Narrow bool
	Sort   query.SortSpec
	Filter query.FilterSpec
}

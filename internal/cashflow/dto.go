package cashflow

import "github.com/vitrine-app/vitrine/internal/query"

type CreateTransactionRequest struct {
	Flow        string `json:"flow" validate:"required,oneof=inflow outflow"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Value       int64  `json:"value" validate:"gt=0"`
}

type UpdateTransactionRequest struct {
	Flow        string `json:"flow" validate:"required,oneof=inflow outflow"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Value       int64  `json:"value" validate:"gt=0"`
}

type DeleteManyTransactionsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ListTransactionsParams combines the query-string options with the filter
// body of POST /cashflow-transactions/list.
type ListTransactionsParams struct {
	Page   int
	Search string
	Sort   query.SortSpec
	Filter query.FilterSpec
}

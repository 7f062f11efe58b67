package sales

import "github.com/vitrine-app/vitrine/internal/query"

type SaleItemInput struct {
	ModelID   string `json:"modelId" validate:"required,uuid"`
	Color     string `json:"color" validate:"required,max=60"`
	Print     string `json:"print" validate:"required,max=60"`
	Size      string `json:"size" validate:"required,max=20"`
	CostPrice int64  `json:"costPrice" validate:"gte=0"`
	SalePrice int64  `json:"salePrice" validate:"gt=0"`
}

type CreateInstallmentRequest struct {
	Value  int64  `json:"value" validate:"gt=0"`
	PaidAt string `json:"paidAt" validate:"required"`
}

type CreateSaleRequest struct {
	CustomerID  *string                   `json:"customerId,omitempty" validate:"omitempty,uuid"`
	PurchasedAt string                    `json:"purchasedAt" validate:"required"`
	Items       []SaleItemInput           `json:"items" validate:"required,min=1,dive"`
	Installment *CreateInstallmentRequest `json:"installment,omitempty" validate:"omitempty"`
}

type DeleteManySalesRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ListSalesParams combines the query-string options with the filter body
// of POST /sales/list.
type ListSalesParams struct {
	Page   int
	Search string
	Sort   query.SortSpec
	Filter query.FilterSpec
}

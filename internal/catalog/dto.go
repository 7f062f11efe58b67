package catalog

type CreateModelRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	CostPrice int64  `json:"costPrice" validate:"gte=0"`
	SalePrice int64  `json:"salePrice" validate:"gte=0"`
}

type UpdateModelRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=120"`
	CostPrice *int64  `json:"costPrice,omitempty" validate:"omitempty,gte=0"`
	SalePrice *int64  `json:"salePrice,omitempty" validate:"omitempty,gte=0"`
}

type CreateCategoryRequest struct {
	Name   string               `json:"name" validate:"required,max=120"`
	Models []CreateModelRequest `json:"models,omitempty" validate:"omitempty,dive"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ListParams narrows the category listing. FetchModels controls whether
// autocomplete rows carry their models.
type ListParams struct {
	Search      string
	FetchModels bool
}

package catalog

// Category groups the models a store sells.
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models,omitempty"`
}

// Model is a catalog entry with suggested prices in integer cents.
// ItemCount is how many sale items were sold under this model.
type Model struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
	CostPrice  int64  `json:"costPrice"`
	SalePrice  int64  `json:"salePrice"`
	ItemCount  int    `json:"itemCount"`
}

// CategoryOption is a narrow autocomplete row, optionally with models.
type CategoryOption struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models,omitempty"`
}

package sales

import "time"

// Sale is the stored entity. Total and profit are computed at creation
// from the item prices and never recalculated.
type Sale struct {
	ID            string    `json:"id"`
	CustomerID    *string   `json:"customerId,omitempty"`
	Total         int64     `json:"total"`
	Profit        int64     `json:"profit"`
	IsInstallment bool      `json:"isInstallment"`
	PurchasedAt   time.Time `json:"purchasedAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Item is one line of a sale. Category and model names are snapshotted
// at sale time so later catalog edits do not rewrite history.
type Item struct {
	ID           string `json:"id"`
	CategoryName string `json:"categoryName"`
	ModelName    string `json:"modelName"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Print        string `json:"print"`
	CostPrice    int64  `json:"costPrice"`
	SalePrice    int64  `json:"salePrice"`
}

// CustomerRef is the embedded customer of a listing row or overview.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Row is one listing row from the sale_stats view.
type Row struct {
	ID          string       `json:"id"`
	Customer    *CustomerRef `json:"customer"`
	Status      string       `json:"status"`
	Total       int64        `json:"total"`
	Profit      int64        `json:"profit"`
	ItemCount   int          `json:"itemCount"`
	PurchasedAt time.Time    `json:"purchasedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Overview is the sale detail header. ProfitReceived scales the profit by
// the share of the total already paid.
type Overview struct {
	Status         string       `json:"status"`
	Customer       *CustomerRef `json:"customer"`
	PurchasedAt    time.Time    `json:"purchasedAt"`
	Total          int64        `json:"total"`
	TotalReceived  int64        `json:"totalReceived"`
	Profit         int64        `json:"profit"`
	ProfitReceived int64        `json:"profitReceived"`
}

// Installment is one payment recorded against a sale.
type Installment struct {
	ID     string    `json:"id"`
	PaidAt time.Time `json:"paidAt"`
	Value  int64     `json:"value"`
}

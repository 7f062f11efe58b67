package customers

import "time"

// Customer is the stored entity. Debt, total spent and last purchase are
// derived from sales and payments, never stored.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerRow is one listing row from the customer_stats view. Money
// columns are integer cents.
type CustomerRow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Debt           int64      `json:"debt"`
	TotalSpent     int64      `json:"totalSpent"`
	LastPurchaseAt *time.Time `json:"lastPurchaseAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Overview is the customer header shown on the detail page.
type Overview struct {
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	LastPurchaseAt *time.Time `json:"lastPurchaseAt,omitempty"`
}

// Metrics are the money aggregates of one customer's history.
type Metrics struct {
	TotalPaid int64 `json:"totalPaid"`
	AvgTicket int64 `json:"avgTicket"`
	Debt      int64 `json:"debt"`
}

// Preferences are the customer's most purchased category, color and size.
type Preferences struct {
	TopCategory string `json:"topCategory,omitempty"`
	TopColor    string `json:"topColor,omitempty"`
	TopSize     string `json:"topSize,omitempty"`
}

// Stats combines metrics and preferences for the customer detail page.
type Stats struct {
	Metrics     Metrics     `json:"metrics"`
	Preferences Preferences `json:"preferences"`
}

// Purchase summarizes one sale of the customer, with the amount already
// received against it.
type Purchase struct {
	ID               string    `json:"id"`
	Total            int64     `json:"total"`
	Profit           int64     `json:"profit"`
	PurchasedAt      time.Time `json:"purchasedAt"`
	TotalReceived    int64     `json:"totalReceived"`
	ItemCount        int       `json:"itemCount"`
	InstallmentCount int       `json:"installmentCount"`
	Status           string    `json:"status"`
}

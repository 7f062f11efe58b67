package cashflow

import "time"

// Flow directions of a ledger movement.
const (
	FlowInflow  = "inflow"
	FlowOutflow = "outflow"
)

// Transaction categories. Installment entries are created by the sales
// module when a payment is registered against an installment sale.
const (
	CategorySalesRevenue       = "SALES_REVENUE"
	CategoryOtherIncome        = "OTHER_INCOME"
	CategoryOperationalExpense = "OPERATIONAL_EXPENSE"
	CategoryPersonnelExpense   = "PERSONNEL_EXPENSE"
	CategoryTaxExpense         = "TAX_EXPENSE"
	CategoryInstallment        = "installment"
)

// Transaction is a recorded cash movement. Value is integer cents.
type Transaction struct {
	ID          string    `json:"id"`
	SaleID      *string   `json:"saleId,omitempty"`
	Flow        string    `json:"flow"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Value       int64     `json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
}

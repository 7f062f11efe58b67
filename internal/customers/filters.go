package customers

import "github.com/vitrine-app/vitrine/internal/query"

// Filterable columns of the customer_stats view.
var listFields = query.Fields{
	"name":           {Column: "name", Type: query.FieldText},
	"phone":          {Column: "phone", Type: query.FieldText},
	"debt":           {Column: "debt", Type: query.FieldNumber},
	"totalSpent":     {Column: "total_spent", Type: query.FieldNumber},
	"lastPurchaseAt": {Column: "last_purchase_at", Type: query.FieldDate},
}

var sortableFields = map[string]string{
	"name":           "name",
	"debt":           "debt",
	"totalSpent":     "total_spent",
	"lastPurchaseAt": "last_purchase_at",
}

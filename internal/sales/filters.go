package sales

import "github.com/vitrine-app/vitrine/internal/query"

// Filterable columns of the sale_stats view.
var listFields = query.Fields{
	"customerName": {Column: "customer_name", Type: query.FieldText},
	"status":       {Column: "status", Type: query.FieldText},
	"total":        {Column: "total", Type: query.FieldNumber},
	"profit":       {Column: "profit", Type: query.FieldNumber},
	"itemCount":    {Column: "item_count", Type: query.FieldNumber},
	"purchasedAt":  {Column: "purchased_at", Type: query.FieldDate},
}

var sortableFields = map[string]string{
	"customerName": "customer_name",
	"status":       "status",
	"total":        "total",
	"profit":       "profit",
	"itemCount":    "item_count",
	"purchasedAt":  "purchased_at",
}

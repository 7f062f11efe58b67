package cashflow

import "github.com/vitrine-app/vitrine/internal/query"

// Filterable columns of the transactions table listing.
var listFields = query.Fields{
	"description": {Column: "description", Type: query.FieldText},
	"flow":        {Column: "flow", Type: query.FieldText},
	"category":    {Column: "category", Type: query.FieldText},
	"value":       {Column: "value", Type: query.FieldNumber},
	"date":        {Column: "date", Type: query.FieldDate},
}

var sortableFields = map[string]string{
	"description": "description",
	"flow":        "flow",
	"category":    "category",
	"value":       "value",
	"date":        "date",
}

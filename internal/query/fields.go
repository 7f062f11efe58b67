// Package query compiles client-supplied filter, sort and pagination
// specifications into parametrized SQL fragments. Each resource declares
// which of its columns are exposed and with which semantic type; anything
// outside that declaration is rejected before touching the database.
package query

// FieldType is the semantic type of a filterable column. The type decides
// which operators are accepted and how the raw string value is interpreted.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldBoolean FieldType = "boolean"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
)

// Field binds an exposed filter name to its database column and type.
type Field struct {
	Column string
	Type   FieldType
}

// Fields maps the exposed filter names of one resource.
type Fields map[string]Field

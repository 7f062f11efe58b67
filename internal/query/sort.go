package query

import "fmt"

// SortSpec carries the requested ordering from the query string.
type SortSpec struct {
	SortBy  string `json:"sortBy,omitempty"`
	SortDir string `json:"sortDir,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Order is a validated ordering directive.
type Order struct {
	Column string
	Desc   bool
}

// CompileSort validates the requested column against the resource's
// sortable whitelist. A nil Order means no explicit ordering was asked
// for and the caller should apply its own default.
func CompileSort(spec SortSpec, sortable map[string]string) (*Order, error) {
	if spec.SortBy == "" {
		return nil, nil
	}

	column, ok := sortable[spec.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, spec.SortBy)
	}

	return &Order{Column: column, Desc: spec.SortDir == "desc"}, nil
}

// SQL renders the ORDER BY column and direction, falling back to the
// caller's default when no explicit order was compiled.
func (o *Order) SQL(fallback string) string {
	if o == nil {
		return fallback
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return o.Column + " " + dir
}

package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitrine-app/vitrine/internal/shared"
)

var (
	// ErrInvalidField signals a filter naming a column the resource does not expose.
	ErrInvalidField = errors.New("invalid filter field")
	// ErrInvalidOperator signals an operator outside the field type's operator set.
	ErrInvalidOperator = errors.New("invalid filter operator")
	// ErrInvalidValue signals a value that cannot be parsed for the field type.
	ErrInvalidValue = errors.New("invalid filter value")
	// ErrInvalidSortField signals a sort column outside the resource whitelist.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// Logical connectives for combining sibling filters. The model is
// deliberately flat: one connective over all filters, no nesting.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// SingleFilter is one client-supplied column condition.
type SingleFilter struct {
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Value    string `json:"value,omitempty"`
}

// FilterSpec is the filter portion of a list request body.
type FilterSpec struct {
	Logical string         `json:"logical,omitempty" validate:"omitempty,oneof=AND OR"`
	Filters []SingleFilter `json:"filters,omitempty" validate:"omitempty,dive"`
}

type clause struct {
	expr string
	args []any
}

// Predicate is a compiled filter ready to render into a WHERE fragment.
// Compilation is pure; a Predicate never changes after CompileFilter returns.
type Predicate struct {
	logical string
	clauses []clause
}

// Empty reports whether the predicate carries no conditions.
func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// SQL renders the predicate as a parametrized fragment. Placeholders are
// numbered from argPos so the fragment can be appended to an existing
// argument list.
func (p Predicate) SQL(argPos int) (string, []any) {
	if len(p.clauses) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(p.clauses))
	var args []any
	for _, c := range p.clauses {
		var b strings.Builder
		for _, r := range c.expr {
			if r == '?' {
				b.WriteString("$")
				b.WriteString(strconv.Itoa(argPos))
				argPos++
				continue
			}
			b.WriteRune(r)
		}
		parts = append(parts, "("+b.String()+")")
		args = append(args, c.args...)
	}

	return strings.Join(parts, " "+p.logical+" "), args
}

// CompileFilter resolves every filter against the resource's field map and
// produces a predicate combined under the spec's logical connective.
func CompileFilter(spec FilterSpec, fields Fields) (Predicate, error) {
	logical := spec.Logical
	if logical == "" {
		logical = LogicalAnd
	}

	p := Predicate{logical: logical}
	for _, f := range spec.Filters {
		field, ok := fields[f.Field]
		if !ok {
			return Predicate{}, fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
		}

		c, err := compileClause(f, field)
		if err != nil {
			return Predicate{}, err
		}
		p.clauses = append(p.clauses, c)
	}

	return p, nil
}

func compileClause(f SingleFilter, field Field) (clause, error) {
	switch field.Type {
	case FieldText:
		return textClause(f, field.Column)
	case FieldBoolean:
		return booleanClause(f, field.Column)
	case FieldNumber:
		return numberClause(f, field.Column)
	case FieldDate:
		return dateClause(f, field.Column)
	}
	return clause{}, fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
}

func textClause(f SingleFilter, col string) (clause, error) {
	switch f.Operator {
	case "equals":
		return clause{col + " = ?", []any{f.Value}}, nil
	case "not_equals":
		return clause{col + " <> ?", []any{f.Value}}, nil
	case "contains":
		return clause{col + " LIKE ?", []any{"%" + f.Value + "%"}}, nil
	case "not_contains":
		return clause{col + " NOT LIKE ?", []any{"%" + f.Value + "%"}}, nil
	case "starts_with":
		return clause{col + " LIKE ?", []any{f.Value + "%"}}, nil
	case "ends_with":
		return clause{col + " LIKE ?", []any{"%" + f.Value}}, nil
	}
	return clause{}, operatorError(f)
}

func booleanClause(f SingleFilter, col string) (clause, error) {
	value, err := strconv.ParseBool(f.Value)
	if err != nil {
		return clause{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, f.Value)
	}

	switch f.Operator {
	case "equals":
		return clause{col + " = ?", []any{value}}, nil
	case "not_equals":
		return clause{col + " <> ?", []any{value}}, nil
	}
	return clause{}, operatorError(f)
}

func numberClause(f SingleFilter, col string) (clause, error) {
	amount, err := strconv.ParseFloat(f.Value, 64)
	if err != nil {
		return clause{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, f.Value)
	}
	cents := shared.ToCents(amount)

	switch f.Operator {
	case "equals":
		return clause{col + " = ?", []any{cents}}, nil
	case "not_equals":
		return clause{col + " <> ?", []any{cents}}, nil
	case "greater_than":
		return clause{col + " > ?", []any{cents}}, nil
	case "less_than":
		return clause{col + " < ?", []any{cents}}, nil
	}
	return clause{}, operatorError(f)
}

// Date comparisons always operate on day boundaries in the business
// timezone even though stored timestamps carry time of day.
func dateClause(f SingleFilter, col string) (clause, error) {
	day, err := shared.ParseDate(f.Value)
	if err != nil {
		return clause{}, fmt.Errorf("%w: %q is not an ISO date", ErrInvalidValue, f.Value)
	}
	start := shared.StartOfDay(day)
	end := shared.EndOfDay(day)

	switch f.Operator {
	case "equals":
		return clause{col + " BETWEEN ? AND ?", []any{start, end}}, nil
	case "not_equals":
		return clause{col + " NOT BETWEEN ? AND ?", []any{start, end}}, nil
	case "before":
		return clause{col + " < ?", []any{start}}, nil
	case "after":
		return clause{col + " > ?", []any{end}}, nil
	}
	return clause{}, operatorError(f)
}

func operatorError(f SingleFilter) error {
	return fmt.Errorf("%w: operation %q is not valid for column %q", ErrInvalidOperator, f.Operator, f.Field)
}

// IsClientError reports whether err stems from a malformed client query
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidOperator) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidSortField)
}

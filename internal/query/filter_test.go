package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-app/vitrine/internal/shared"
)

var testFields = Fields{
	"name":        {Column: "name", Type: FieldText},
	"active":      {Column: "is_active", Type: FieldBoolean},
	"total":       {Column: "total", Type: FieldNumber},
	"purchasedAt": {Column: "purchased_at", Type: FieldDate},
}

func TestCompileFilterUnknownField(t *testing.T) {
	spec := FilterSpec{Filters: []SingleFilter{
		{Field: "salary", Operator: "equals", Value: "10"},
	}}

	_, err := CompileFilter(spec, testFields)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Contains(t, err.Error(), "salary")
}

func TestCompileFilterUnknownOperatorPerType(t *testing.T) {
	cases := []SingleFilter{
		{Field: "name", Operator: "greater_than", Value: "a"},
		{Field: "active", Operator: "contains", Value: "true"},
		{Field: "total", Operator: "starts_with", Value: "10"},
		{Field: "purchasedAt", Operator: "contains", Value: "2024-03-10"},
	}

	for _, f := range cases {
		_, err := CompileFilter(FilterSpec{Filters: []SingleFilter{f}}, testFields)
		require.Error(t, err, "field %s operator %s", f.Field, f.Operator)
		assert.ErrorIs(t, err, ErrInvalidOperator)
		assert.Contains(t, err.Error(), f.Operator)
		assert.Contains(t, err.Error(), f.Field)
	}
}

func TestCompileFilterText(t *testing.T) {
	cases := []struct {
		operator string
		wantSQL  string
		wantArg  string
	}{
		{"equals", "(name = $1)", "Ana"},
		{"not_equals", "(name <> $1)", "Ana"},
		{"contains", "(name LIKE $1)", "%Ana%"},
		{"not_contains", "(name NOT LIKE $1)", "%Ana%"},
		{"starts_with", "(name LIKE $1)", "Ana%"},
		{"ends_with", "(name LIKE $1)", "%Ana"},
	}

	for _, tc := range cases {
		p, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
			{Field: "name", Operator: tc.operator, Value: "Ana"},
		}}, testFields)
		require.NoError(t, err, tc.operator)

		sql, args := p.SQL(1)
		assert.Equal(t, tc.wantSQL, sql)
		require.Len(t, args, 1)
		assert.Equal(t, tc.wantArg, args[0])
	}
}

func TestCompileFilterNumberConvertsToCents(t *testing.T) {
	p, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "total", Operator: "greater_than", Value: "99.90"},
	}}, testFields)
	require.NoError(t, err)

	sql, args := p.SQL(1)
	assert.Equal(t, "(total > $1)", sql)
	require.Len(t, args, 1)
	assert.Equal(t, int64(9990), args[0])
}

func TestCompileFilterBoolean(t *testing.T) {
	p, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "active", Operator: "not_equals", Value: "true"},
	}}, testFields)
	require.NoError(t, err)

	sql, args := p.SQL(1)
	assert.Equal(t, "(is_active <> $1)", sql)
	require.Len(t, args, 1)
	assert.Equal(t, true, args[0])

	_, err = CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "active", Operator: "equals", Value: "maybe"},
	}}, testFields)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCompileFilterDateEqualsSpansWholeDay(t *testing.T) {
	p, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "purchasedAt", Operator: "equals", Value: "2024-03-10"},
	}}, testFields)
	require.NoError(t, err)

	sql, args := p.SQL(1)
	assert.Equal(t, "(purchased_at BETWEEN $1 AND $2)", sql)
	require.Len(t, args, 2)

	start := args[0].(time.Time)
	end := args[1].(time.Time)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, shared.Location), start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), shared.Location), end)

	// A record anywhere inside the day matches the range; the next
	// midnight does not.
	inside := time.Date(2024, 3, 10, 18, 42, 7, 0, shared.Location)
	assert.True(t, !inside.Before(start) && !inside.After(end))
	nextDay := time.Date(2024, 3, 11, 0, 0, 0, 0, shared.Location)
	assert.True(t, nextDay.After(end))
}

func TestCompileFilterDateBeforeAfter(t *testing.T) {
	before, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "purchasedAt", Operator: "before", Value: "2024-03-10"},
	}}, testFields)
	require.NoError(t, err)
	sql, args := before.SQL(1)
	assert.Equal(t, "(purchased_at < $1)", sql)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, shared.Location), args[0])

	after, err := CompileFilter(FilterSpec{Filters: []SingleFilter{
		{Field: "purchasedAt", Operator: "after", Value: "2024-03-10"},
	}}, testFields)
	require.NoError(t, err)
	sql, args = after.SQL(1)
	assert.Equal(t, "(purchased_at > $1)", sql)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), shared.Location), args[0])
}

func TestCompileFilterLogicalConnective(t *testing.T) {
	spec := FilterSpec{
		Logical: LogicalOr,
		Filters: []SingleFilter{
			{Field: "name", Operator: "equals", Value: "Ana"},
			{Field: "total", Operator: "less_than", Value: "50"},
		},
	}

	p, err := CompileFilter(spec, testFields)
	require.NoError(t, err)

	sql, args := p.SQL(3)
	assert.Equal(t, "(name = $3) OR (total < $4)", sql)
	require.Len(t, args, 2)
	assert.Equal(t, "Ana", args[0])
	assert.Equal(t, int64(5000), args[1])
}

func TestCompileFilterDefaultsToAnd(t *testing.T) {
	spec := FilterSpec{Filters: []SingleFilter{
		{Field: "name", Operator: "equals", Value: "Ana"},
		{Field: "active", Operator: "equals", Value: "true"},
	}}

	p, err := CompileFilter(spec, testFields)
	require.NoError(t, err)

	sql, _ := p.SQL(1)
	assert.Equal(t, "(name = $1) AND (is_active = $2)", sql)
}

func TestCompileFilterEmpty(t *testing.T) {
	p, err := CompileFilter(FilterSpec{}, testFields)
	require.NoError(t, err)
	assert.True(t, p.Empty())

	sql, args := p.SQL(1)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

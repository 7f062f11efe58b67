package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/cashflow"
)

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository builds the Postgres-backed aggregate reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) FlowTotals(ctx context.Context, start, end time.Time) (FlowTotals, error) {
	const q = `
		SELECT flow, COALESCE(SUM(value), 0)
		FROM cash_flow_transactions
		WHERE date BETWEEN $1 AND $2
		GROUP BY flow
	`
	return r.scanFlowTotals(ctx, q, start, end)
}

func (r *repository) HistoricalFlowTotals(ctx context.Context, end time.Time) (FlowTotals, error) {
	const q = `
		SELECT flow, COALESCE(SUM(value), 0)
		FROM cash_flow_transactions
		WHERE date <= $1
		GROUP BY flow
	`
	return r.scanFlowTotals(ctx, q, end)
}

func (r *repository) scanFlowTotals(ctx context.Context, q string, args ...any) (FlowTotals, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return FlowTotals{}, fmt.Errorf("reports: flow totals: %w", err)
	}
	defer rows.Close()

	var totals FlowTotals
	for rows.Next() {
		var flow string
		var sum int64
		if err := rows.Scan(&flow, &sum); err != nil {
			return FlowTotals{}, err
		}
		switch flow {
		case cashflow.FlowInflow:
			totals.Inflow = sum
		case cashflow.FlowOutflow:
			totals.Outflow = sum
		}
	}
	return totals, rows.Err()
}

func (r *repository) SaleTotals(ctx context.Context, start, end time.Time) (SaleTotals, error) {
	const q = `
		SELECT COALESCE(SUM(total), 0), COUNT(id)
		FROM sales
		WHERE purchased_at BETWEEN $1 AND $2
	`
	var totals SaleTotals
	if err := r.db.QueryRow(ctx, q, start, end).Scan(&totals.Total, &totals.Count); err != nil {
		return SaleTotals{}, fmt.Errorf("reports: sale totals: %w", err)
	}
	return totals, nil
}

func (r *repository) SaleItemCostTotal(ctx context.Context, start, end time.Time) (int64, error) {
	const q = `
		SELECT COALESCE(SUM(si.cost_price), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.purchased_at BETWEEN $1 AND $2
	`
	var total int64
	if err := r.db.QueryRow(ctx, q, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("reports: sale item cost total: %w", err)
	}
	return total, nil
}

func (r *repository) RecognizedFlowTotals(ctx context.Context, start, end time.Time) (RecognizedTotals, error) {
	const q = `
		SELECT flow, sale_id IS NULL, COALESCE(SUM(value), 0)
		FROM cash_flow_transactions
		WHERE category = ANY($1) AND date BETWEEN $2 AND $3
		GROUP BY flow, sale_id IS NULL
	`
	rows, err := r.db.Query(ctx, q, RecognizedCategories, start, end)
	if err != nil {
		return RecognizedTotals{}, fmt.Errorf("reports: recognized flow totals: %w", err)
	}
	defer rows.Close()

	var totals RecognizedTotals
	for rows.Next() {
		var flow string
		var manual bool
		var sum int64
		if err := rows.Scan(&flow, &manual, &sum); err != nil {
			return RecognizedTotals{}, err
		}
		switch {
		case flow == cashflow.FlowInflow && manual:
			totals.ManualRevenue = sum
		case flow == cashflow.FlowOutflow:
			totals.Expenses += sum
		}
	}
	return totals, rows.Err()
}

func (r *repository) SalesRevenueTotal(ctx context.Context, start, end time.Time) (int64, error) {
	const q = `
		SELECT COALESCE(SUM(value), 0)
		FROM cash_flow_transactions
		WHERE category = $1 AND date BETWEEN $2 AND $3
	`
	var total int64
	if err := r.db.QueryRow(ctx, q, cashflow.CategorySalesRevenue, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("reports: sales revenue total: %w", err)
	}
	return total, nil
}

func (r *repository) TopCategories(ctx context.Context, start, end time.Time, limit int) ([]CategoryCount, error) {
	// Category name ascending as the secondary key keeps the ranking
	// stable when counts tie.
	const q = `
		SELECT si.category_name, COUNT(si.id)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.purchased_at BETWEEN $1 AND $2
		GROUP BY si.category_name
		ORDER BY COUNT(si.id) DESC, si.category_name ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, q, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("reports: top categories: %w", err)
	}
	defer rows.Close()

	var top []CategoryCount
	for rows.Next() {
		var entry CategoryCount
		if err := rows.Scan(&entry.Category, &entry.Count); err != nil {
			return nil, err
		}
		top = append(top, entry)
	}
	return top, rows.Err()
}

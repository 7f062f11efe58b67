package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/platform/db"
	"github.com/vitrine-app/vitrine/internal/query"
)

var (
	ErrNotFound        = errors.New("sale not found")
	ErrModelNotFound   = errors.New("model not found")
	ErrInstallmentOnly = errors.New("transaction is not an installment")
)

// ModelSnapshot carries the catalog names copied onto sale items.
type ModelSnapshot struct {
	ID           string
	Name         string
	CategoryName string
}

// ListQuery is the compiled listing request handed to the repository.
type ListQuery struct {
	Filter query.Predicate
	Order  *query.Order
	Page   query.Pagination
	Search string
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	CustomerName(ctx context.Context, id string) (string, error)
	ModelSnapshots(ctx context.Context, ids []string) (map[string]ModelSnapshot, error)
	CreateSale(ctx context.Context, sale Sale) error
	CreateItems(ctx context.Context, saleID string, items []Item) error
	CreateTransaction(ctx context.Context, t cashflow.Transaction) error
	Overview(ctx context.Context, id string) (*Overview, error)
	Items(ctx context.Context, saleID string) ([]Item, error)
	Installments(ctx context.Context, saleID string) ([]Installment, error)
	TransactionCount(ctx context.Context, saleID string) (int, error)
	DeleteInstallment(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context, req ListQuery) ([]Row, int, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) CustomerName(ctx context.Context, id string) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM customers WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("sales: customer %q: %w", id, ErrNotFound)
	}
	return name, err
}

func (r *repository) ModelSnapshots(ctx context.Context, ids []string) (map[string]ModelSnapshot, error) {
	const q = `
		SELECT m.id, m.name, c.name
		FROM models m
		JOIN categories c ON c.id = m.category_id
		WHERE m.id = ANY($1)
	`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("sales: load models: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]ModelSnapshot, len(ids))
	for rows.Next() {
		var s ModelSnapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryName); err != nil {
			return nil, err
		}
		snapshots[s.ID] = s
	}
	return snapshots, rows.Err()
}

func (r *repository) CreateSale(ctx context.Context, sale Sale) error {
	const q = `
		INSERT INTO sales (id, customer_id, total, profit, is_installment, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, q, sale.ID, sale.CustomerID, sale.Total, sale.Profit, sale.IsInstallment, sale.PurchasedAt)
	if err != nil {
		return fmt.Errorf("sales: insert sale: %w", err)
	}
	return nil
}

func (r *repository) CreateItems(ctx context.Context, saleID string, items []Item) error {
	const q = `
		INSERT INTO sale_items (id, sale_id, category_name, model_name, size, color, print, cost_price, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, item := range items {
		_, err := r.db.Exec(ctx, q, item.ID, saleID, item.CategoryName, item.ModelName,
			item.Size, item.Color, item.Print, item.CostPrice, item.SalePrice)
		if err != nil {
			return fmt.Errorf("sales: insert item: %w", err)
		}
	}
	return nil
}

func (r *repository) CreateTransaction(ctx context.Context, t cashflow.Transaction) error {
	const q = `
		INSERT INTO cash_flow_transactions (id, sale_id, flow, date, description, category, value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, q, t.ID, t.SaleID, t.Flow, t.Date, t.Description, t.Category, t.Value)
	if err != nil {
		return fmt.Errorf("sales: insert transaction: %w", err)
	}
	return nil
}

func (r *repository) Overview(ctx context.Context, id string) (*Overview, error) {
	const q = `
		SELECT s.total, s.profit, s.purchased_at,
			COALESCE(SUM(t.value), 0),
			c.id, c.name
		FROM sales s
		LEFT JOIN cash_flow_transactions t ON t.sale_id = s.id
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1
		GROUP BY s.id, c.id
	`
	var o Overview
	var purchasedAt pgtype.Timestamptz
	var customerID, customerName pgtype.Text
	err := r.db.QueryRow(ctx, q, id).Scan(&o.Total, &o.Profit, &purchasedAt, &o.TotalReceived, &customerID, &customerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.PurchasedAt = purchasedAt.Time
	if customerID.Valid {
		o.Customer = &CustomerRef{ID: customerID.String, Name: customerName.String}
	}
	return &o, nil
}

func (r *repository) Items(ctx context.Context, saleID string) ([]Item, error) {
	const q = `
		SELECT id, category_name, model_name, size, color, print, cost_price, sale_price
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, q, saleID)
	if err != nil {
		return nil, fmt.Errorf("sales: list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.CategoryName, &item.ModelName, &item.Size,
			&item.Color, &item.Print, &item.CostPrice, &item.SalePrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Installments are the inflow transactions recorded against the sale,
// newest first.
func (r *repository) Installments(ctx context.Context, saleID string) ([]Installment, error) {
	const q = `
		SELECT id, date, value
		FROM cash_flow_transactions
		WHERE sale_id = $1 AND flow = 'inflow'
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, q, saleID)
	if err != nil {
		return nil, fmt.Errorf("sales: list installments: %w", err)
	}
	defer rows.Close()

	var installments []Installment
	for rows.Next() {
		var inst Installment
		var paidAt pgtype.Timestamptz
		if err := rows.Scan(&inst.ID, &paidAt, &inst.Value); err != nil {
			return nil, err
		}
		inst.PaidAt = paidAt.Time
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (r *repository) TransactionCount(ctx context.Context, saleID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM cash_flow_transactions WHERE sale_id = $1`, saleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sales: count transactions: %w", err)
	}
	return count, nil
}

// DeleteInstallment only removes later installments, never the original
// sale revenue entry.
func (r *repository) DeleteInstallment(ctx context.Context, id string) error {
	const q = `
		DELETE FROM cash_flow_transactions
		WHERE id = $1 AND flow = 'inflow' AND category = $2
	`
	tag, err := r.db.Exec(ctx, q, id, cashflow.CategoryInstallment)
	if err != nil {
		return fmt.Errorf("sales: delete installment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInstallmentOnly
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sales: delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("sales: delete sales: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repository) List(ctx context.Context, req ListQuery) ([]Row, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if !req.Filter.Empty() {
		frag, fargs := req.Filter.SQL(argPos)
		conditions = append(conditions, "("+frag+")")
		args = append(args, fargs...)
		argPos += len(fargs)
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("customer_name LIKE $%d", argPos))
		args = append(args, req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sale_stats %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sales: count: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, customer_id, customer_name, status, total, profit, item_count, purchased_at, created_at
		FROM sale_stats
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, req.Order.SQL("created_at DESC"), argPos, argPos+1)
	args = append(args, req.Page.Limit, req.Page.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sales: list: %w", err)
	}
	defer rows.Close()

	var sales []Row
	for rows.Next() {
		var row Row
		var customerID, customerName pgtype.Text
		var purchasedAt, createdAt pgtype.Timestamptz
		if err := rows.Scan(&row.ID, &customerID, &customerName, &row.Status, &row.Total,
			&row.Profit, &row.ItemCount, &purchasedAt, &createdAt); err != nil {
			return nil, 0, err
		}
		if customerID.Valid {
			row.Customer = &CustomerRef{ID: customerID.String, Name: customerName.String}
		}
		row.PurchasedAt = purchasedAt.Time
		row.CreatedAt = createdAt.Time
		sales = append(sales, row)
	}
	return sales, total, rows.Err()
}

package cashflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/platform/db"
	"github.com/vitrine-app/vitrine/internal/query"
)

var ErrNotFound = errors.New("transaction not found")

// ListQuery is the compiled listing request handed to the repository.
type ListQuery struct {
	Filter query.Predicate
	Order  *query.Order
	Page   query.Pagination
	Search string
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Update(ctx context.Context, id string, tx Transaction) (Transaction, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	DeleteSale(ctx context.Context, saleID string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context, req ListQuery) ([]Transaction, int, error)
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

const transactionColumns = "id, sale_id, flow, date, description, category, value, created_at"

func (r *repository) Create(ctx context.Context, t Transaction) (Transaction, error) {
	const q = `
		INSERT INTO cash_flow_transactions (id, sale_id, flow, date, description, category, value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns
	row := r.db.QueryRow(ctx, q, t.ID, t.SaleID, t.Flow, t.Date, t.Description, t.Category, t.Value)
	return scanTransaction(row)
}

func (r *repository) Update(ctx context.Context, id string, t Transaction) (Transaction, error) {
	const q = `
		UPDATE cash_flow_transactions
		SET flow = $2, date = $3, description = $4, category = $5, value = $6
		WHERE id = $1
		RETURNING ` + transactionColumns
	row := r.db.QueryRow(ctx, q, id, t.Flow, t.Date, t.Description, t.Category, t.Value)
	updated, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return updated, err
}

func (r *repository) Get(ctx context.Context, id string) (*Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM cash_flow_transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cash_flow_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cashflow: delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteSale(ctx context.Context, saleID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("cashflow: delete linked sale: %w", err)
	}
	return nil
}

func (r *repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM cash_flow_transactions WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("cashflow: delete transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repository) List(ctx context.Context, req ListQuery) ([]Transaction, int, error) {
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
		conditions = append(conditions, fmt.Sprintf("description LIKE $%d", argPos))
		args = append(args, req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cash_flow_transactions %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("cashflow: count transactions: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM cash_flow_transactions
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, transactionColumns, whereClause, req.Order.SQL("created_at DESC"), argPos, argPos+1)
	args = append(args, req.Page.Limit, req.Page.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("cashflow: list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	return scanTransactionRow(row)
}

func scanTransactionRow(row interface{ Scan(...any) error }) (Transaction, error) {
	var t Transaction
	var saleID pgtype.Text
	var date, createdAt pgtype.Timestamptz

	err := row.Scan(&t.ID, &saleID, &t.Flow, &date, &t.Description, &t.Category, &t.Value, &createdAt)
	if err != nil {
		return Transaction{}, err
	}

	if saleID.Valid {
		t.SaleID = &saleID.String
	}
	t.Date = date.Time
	t.CreatedAt = createdAt.Time
	return t, nil
}

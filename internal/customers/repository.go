package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/query"
)

var ErrNotFound = errors.New("customer not found")

// ListQuery is the compiled listing request handed to the repository.
type ListQuery struct {
	Filter query.Predicate
	Order  *query.Order
	Page   query.Pagination
	Search string
}

type Repository interface {
	Create(ctx context.Context, customer Customer) (Customer, error)
	Update(ctx context.Context, id string, name, phone *string) error
	Get(ctx context.Context, id string) (*Customer, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context, req ListQuery) ([]CustomerRow, int, error)
	Overview(ctx context.Context, id string) (*Overview, error)
	Metrics(ctx context.Context, id string) (Metrics, error)
	Preferences(ctx context.Context, id string) (Preferences, error)
	Purchases(ctx context.Context, id string) ([]Purchase, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	const q = `
		INSERT INTO customers (id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, name, phone, created_at
	`
	row := r.db.QueryRow(ctx, q, c.ID, c.Name, c.Phone)
	var created Customer
	var createdAt pgtype.Timestamptz
	if err := row.Scan(&created.ID, &created.Name, &created.Phone, &createdAt); err != nil {
		return Customer{}, fmt.Errorf("customers: create: %w", err)
	}
	created.CreatedAt = createdAt.Time
	return created, nil
}

func (r *repository) Update(ctx context.Context, id string, name, phone *string) error {
	sets := []string{}
	args := []any{id}
	argPos := 2

	if name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *name)
		argPos++
	}
	if phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", argPos))
		args = append(args, *phone)
		argPos++
	}
	if len(sets) == 0 {
		return nil
	}

	q := fmt.Sprintf("UPDATE customers SET %s WHERE id = $1", strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("customers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Customer, error) {
	const q = `SELECT id, name, phone, created_at FROM customers WHERE id = $1`
	var c Customer
	var createdAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt.Time
	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("customers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("customers: delete many: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repository) List(ctx context.Context, req ListQuery) ([]CustomerRow, int, error) {
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
		conditions = append(conditions, fmt.Sprintf("name LIKE $%d", argPos))
		args = append(args, req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customer_stats %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, phone, debt, total_spent, last_purchase_at, created_at
		FROM customer_stats
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, req.Order.SQL("created_at DESC"), argPos, argPos+1)
	args = append(args, req.Page.Limit, req.Page.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var customers []CustomerRow
	for rows.Next() {
		var c CustomerRow
		var lastPurchase, createdAt pgtype.Timestamptz
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Debt, &c.TotalSpent, &lastPurchase, &createdAt); err != nil {
			return nil, 0, err
		}
		if lastPurchase.Valid {
			t := lastPurchase.Time
			c.LastPurchaseAt = &t
		}
		c.CreatedAt = createdAt.Time
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Overview(ctx context.Context, id string) (*Overview, error) {
	const q = `
		SELECT c.name, c.phone, MAX(s.purchased_at)
		FROM customers c
		LEFT JOIN sales s ON s.customer_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`
	var o Overview
	var lastPurchase pgtype.Timestamptz
	err := r.db.QueryRow(ctx, q, id).Scan(&o.Name, &o.Phone, &lastPurchase)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastPurchase.Valid {
		t := lastPurchase.Time
		o.LastPurchaseAt = &t
	}
	return &o, nil
}

func (r *repository) Metrics(ctx context.Context, id string) (Metrics, error) {
	const q = `
		SELECT
			COALESCE((SELECT SUM(t.value)
				FROM cash_flow_transactions t
				JOIN sales s ON s.id = t.sale_id
				WHERE s.customer_id = $1 AND t.flow = 'inflow'), 0),
			COALESCE((SELECT SUM(total) FROM sales WHERE customer_id = $1), 0),
			COALESCE((SELECT COUNT(id) FROM sales WHERE customer_id = $1), 0)
	`
	var totalPaid, totalSold, saleCount int64
	if err := r.db.QueryRow(ctx, q, id).Scan(&totalPaid, &totalSold, &saleCount); err != nil {
		return Metrics{}, fmt.Errorf("customers: metrics: %w", err)
	}

	m := Metrics{TotalPaid: totalPaid, Debt: totalSold - totalPaid}
	if saleCount > 0 {
		m.AvgTicket = totalSold / saleCount
	}
	return m, nil
}

func (r *repository) Preferences(ctx context.Context, id string) (Preferences, error) {
	var p Preferences

	top := func(column string, dest *string) error {
		q := fmt.Sprintf(`
			SELECT si.%s
			FROM sale_items si
			JOIN sales s ON s.id = si.sale_id
			WHERE s.customer_id = $1 AND si.%s <> ''
			GROUP BY si.%s
			ORDER BY COUNT(si.id) DESC, si.%s ASC
			LIMIT 1
		`, column, column, column, column)
		err := r.db.QueryRow(ctx, q, id).Scan(dest)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	if err := top("category_name", &p.TopCategory); err != nil {
		return Preferences{}, fmt.Errorf("customers: top category: %w", err)
	}
	if err := top("color", &p.TopColor); err != nil {
		return Preferences{}, fmt.Errorf("customers: top color: %w", err)
	}
	if err := top("size", &p.TopSize); err != nil {
		return Preferences{}, fmt.Errorf("customers: top size: %w", err)
	}
	return p, nil
}

func (r *repository) Purchases(ctx context.Context, id string) ([]Purchase, error) {
	const q = `
		SELECT s.id, s.total, s.profit, s.purchased_at,
			COALESCE(SUM(t.value), 0),
			(SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = s.id),
			COUNT(t.id)
		FROM sales s
		LEFT JOIN cash_flow_transactions t ON t.sale_id = s.id
		WHERE s.customer_id = $1
		GROUP BY s.id
		ORDER BY s.purchased_at DESC
	`
	rows, err := r.db.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("customers: purchases: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		var purchasedAt pgtype.Timestamptz
		if err := rows.Scan(&p.ID, &p.Total, &p.Profit, &purchasedAt, &p.TotalReceived, &p.ItemCount, &p.InstallmentCount); err != nil {
			return nil, err
		}
		p.PurchasedAt = purchasedAt.Time
		p.Status = "pending"
		if p.TotalReceived >= p.Total {
			p.Status = "paid"
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

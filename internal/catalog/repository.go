package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/platform/db"
	"github.com/vitrine-app/vitrine/internal/platform/httpx"
)

var ErrNotFound = errors.New("category not found")

const uniqueViolation = "23505"

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	CreateCategory(ctx context.Context, id, name string) error
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
	Categories(ctx context.Context, search string, limit int) ([]Category, error)
	ModelsByCategory(ctx context.Context, categoryIDs []string) (map[string][]Model, error)
	CreateModel(ctx context.Context, m Model) error
	UpdateModel(ctx context.Context, categoryID, modelID string, req UpdateModelRequest) error
	DeleteModel(ctx context.Context, id string) error
	Model(ctx context.Context, id string) (*Model, error)
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

func (r *repository) CreateCategory(ctx context.Context, id, name string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, id, name)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q", httpx.ErrDuplicate, name)
	}
	if err != nil {
		return fmt.Errorf("catalog: create category: %w", err)
	}
	return nil
}

func (r *repository) UpdateCategory(ctx context.Context, id, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q", httpx.ErrDuplicate, name)
	}
	if err != nil {
		return fmt.Errorf("catalog: update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories matches by category name prefix or by the name prefix of any
// model inside the category. Zero limit means no limit.
func (r *repository) Categories(ctx context.Context, search string, limit int) ([]Category, error) {
	q := `
		SELECT DISTINCT c.id, c.name
		FROM categories c
		LEFT JOIN models m ON m.category_id = c.id
		WHERE c.name LIKE $1 OR m.name LIKE $1
		ORDER BY c.name
	`
	args := []any{search + "%"}
	if limit > 0 {
		q += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) ModelsByCategory(ctx context.Context, categoryIDs []string) (map[string][]Model, error) {
	const q = `
		SELECT m.id, m.name, m.category_id, m.cost_price, m.sale_price,
			(SELECT COUNT(*) FROM sale_items si WHERE si.model_name = m.name)
		FROM models m
		WHERE m.category_id = ANY($1)
		ORDER BY m.name
	`
	rows, err := r.db.Query(ctx, q, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("catalog: list models: %w", err)
	}
	defer rows.Close()

	models := make(map[string][]Model, len(categoryIDs))
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.ID, &m.Name, &m.CategoryID, &m.CostPrice, &m.SalePrice, &m.ItemCount); err != nil {
			return nil, err
		}
		models[m.CategoryID] = append(models[m.CategoryID], m)
	}
	return models, rows.Err()
}

func (r *repository) CreateModel(ctx context.Context, m Model) error {
	const q = `
		INSERT INTO models (id, name, category_id, cost_price, sale_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, q, m.ID, m.Name, m.CategoryID, m.CostPrice, m.SalePrice)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: model %q", httpx.ErrDuplicate, m.Name)
	}
	if err != nil {
		return fmt.Errorf("catalog: create model: %w", err)
	}
	return nil
}

func (r *repository) UpdateModel(ctx context.Context, categoryID, modelID string, req UpdateModelRequest) error {
	const q = `
		UPDATE models
		SET name = COALESCE($3, name),
			cost_price = COALESCE($4, cost_price),
			sale_price = COALESCE($5, sale_price)
		WHERE id = $2 AND category_id = $1
	`
	tag, err := r.db.Exec(ctx, q, categoryID, modelID, req.Name, req.CostPrice, req.SalePrice)
	if err != nil {
		return fmt.Errorf("catalog: update model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteModel(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Model(ctx context.Context, id string) (*Model, error) {
	const q = `
		SELECT m.id, m.name, m.category_id, m.cost_price, m.sale_price,
			(SELECT COUNT(*) FROM sale_items si WHERE si.model_name = m.name)
		FROM models m
		WHERE m.id = $1
	`
	var m Model
	err := r.db.QueryRow(ctx, q, id).Scan(&m.ID, &m.Name, &m.CategoryID, &m.CostPrice, &m.SalePrice, &m.ItemCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

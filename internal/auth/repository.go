package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-app/vitrine/internal/platform/httpx"
)

var ErrUserNotFound = errors.New("user not found")

const uniqueViolation = "23505"

type Repository interface {
	CreateUser(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CreateUser(ctx context.Context, user User) error {
	const q = `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, q, user.ID, user.Name, user.Email, user.PasswordHash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email %q", httpx.ErrDuplicate, user.Email)
	}
	if err != nil {
		return fmt.Errorf("auth: create user: %w", err)
	}
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	const q = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *repository) scanUser(row pgx.Row) (*User, error) {
	var u User
	var createdAt pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	return &u, nil
}

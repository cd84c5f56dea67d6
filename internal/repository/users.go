package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/filesmanager/internal/users"
)

// Users is the Postgres users.Repository.
type Users struct {
	db DBTX
}

func NewUsers(db DBTX) *Users {
	return &Users{db: db}
}

func (r *Users) Create(ctx context.Context, email string, passwordHash []byte) (users.User, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return users.User{}, users.ErrAlreadyExists
		}
		return users.User{}, fmt.Errorf("create user: %w", err)
	}

	return users.User{ID: id.String(), Email: email, PasswordHash: passwordHash}, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *Users) FindByID(ctx context.Context, id string) (users.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash FROM users WHERE id = $1`, uid)
	return scanUser(row)
}

func (r *Users) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (users.User, error) {
	var (
		u  users.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.String()
	return u, nil
}

var _ users.Repository = (*Users)(nil)

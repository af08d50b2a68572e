package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/jobboard/internal/store"
)

var _ store.UserStore = (*DB)(nil)

const uniqueViolation = "23505"

// CreateUser inserts a user and fills in its generated ID and CreatedAt.
func (db *DB) CreateUser(ctx context.Context, u *store.UserRecord) error {
	email := store.NormalizeEmail(u.Email)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, user_type, company, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Name, email, u.Role, u.Company, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.Email = email
	return nil
}

// GetUserByEmail returns nil when no user has the email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*store.UserRecord, error) {
	return db.getUser(ctx, `WHERE email = $1`, store.NormalizeEmail(email))
}

// GetUser returns nil when the user does not exist.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*store.UserRecord, error) {
	return db.getUser(ctx, `WHERE id = $1`, id)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*store.UserRecord, error) {
	var u store.UserRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, user_type, company, password_hash, created_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Company, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

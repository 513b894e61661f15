package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

func (d *PgDirectory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	var email *string

	err := d.pool.QueryRow(ctx, `
		SELECT id, name, email, role
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}

	if email != nil {
		u.Email = *email
	}
	return &u, nil
}

// CreateUser is used by the seed command; the API never writes users.
func (d *PgDirectory) CreateUser(ctx context.Context, u User) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

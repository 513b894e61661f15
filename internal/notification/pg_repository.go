package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Type, &n.Message, &n.Read, &n.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *PgRepository) Insert(ctx context.Context, n Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, type, message, read, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, n.ID, string(n.Type), n.Message, n.Read, n.Timestamp)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, message, read, timestamp
		FROM notifications
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications
		SET read = true
		WHERE id = $1
		RETURNING id, type, message, read, timestamp
	`, id)
	return scanNotification(row)
}

func (r *PgRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE read = false`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

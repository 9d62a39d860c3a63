package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
)

// NotificationRepo implements NotificationRepository using PostgreSQL.
type NotificationRepo struct{ db *DB }

// NewNotificationRepo constructs a notification repository.
func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification row.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, user_id, kind, body)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, n.ID, n.UserID, n.Kind, n.Body)
	return err
}

// ListUnread selects a user's unread notifications, newest first.
func (r *NotificationRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	const q = `
SELECT id, user_id, kind, body, read, created_at
FROM notifications WHERE user_id=$1 AND read=false ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read, scoped to its owner.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	const q = `
UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

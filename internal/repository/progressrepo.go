package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/model"
)

// ProgressRepository records lesson completions and serves the XP ranking.
type ProgressRepository interface {
	// CreateCompletion inserts a completion record. Returns
	// errs.ErrAlreadyExists when the user already completed the lesson.
	CreateCompletion(ctx context.Context, c *model.Completion) error
	// ListCompletions returns a user's completions, newest first.
	ListCompletions(ctx context.Context, userID uuid.UUID) ([]model.Completion, error)
	// Leaderboard returns the top-n users by XP, ranked from 1.
	Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
}

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	// Create inserts a notification.
	Create(ctx context.Context, n *model.Notification) error
	// ListUnread returns a user's unread notifications, newest first.
	ListUnread(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	// MarkRead flags a notification as read. Returns errs.ErrNotFound when
	// the notification does not exist or belongs to another user.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

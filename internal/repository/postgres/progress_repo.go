package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
)

// ProgressRepo implements ProgressRepository using PostgreSQL.
type ProgressRepo struct{ db *DB }

// NewProgressRepo constructs a progress repository.
func NewProgressRepo(db *DB) *ProgressRepo { return &ProgressRepo{db: db} }

// CreateCompletion inserts a completion row. The (user_id, lesson_id) unique
// index makes repeat completions surface as errs.ErrAlreadyExists.
func (r *ProgressRepo) CreateCompletion(ctx context.Context, c *model.Completion) error {
	const q = `
INSERT INTO completions (id, user_id, lesson_id, xp_awarded)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.UserID, c.LessonID, c.XPAwarded)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// ListCompletions selects a user's completions, newest first.
func (r *ProgressRepo) ListCompletions(ctx context.Context, userID uuid.UUID) ([]model.Completion, error) {
	const q = `
SELECT id, user_id, lesson_id, xp_awarded, completed_at
FROM completions WHERE user_id=$1 ORDER BY completed_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Completion
	for rows.Next() {
		var c model.Completion
		if err := rows.Scan(&c.ID, &c.UserID, &c.LessonID, &c.XPAwarded, &c.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Leaderboard selects the top-n users by XP.
func (r *ProgressRepo) Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	const q = `
SELECT id, display_name, xp
FROM users ORDER BY xp DESC, created_at ASC LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.XP); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

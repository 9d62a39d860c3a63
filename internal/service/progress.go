package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
	"github.com/skillforge/skillforge/internal/repository"
)

// Streak milestones (in days) that produce a notification.
const streakMilestone = 7

// ProgressService tracks lesson completions, XP, streaks, and the ranking.
type ProgressService interface {
	// CompleteLesson records a completion, awards XP, and updates the
	// user's daily streak. A repeat completion is errs.ErrAlreadyExists.
	CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.Completion, error)
	// Leaderboard returns the top-n users by XP.
	Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
	// UnreadNotifications returns a user's unread notifications.
	UnreadNotifications(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	// MarkNotificationRead flags one of the user's notifications as read.
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error
}

type ProgressServiceImpl struct {
	users    repository.UserRepository
	content  repository.ContentRepository
	progress repository.ProgressRepository
	notes    repository.NotificationRepository

	now func() time.Time
}

// NewProgressService constructs ProgressService.
func NewProgressService(users repository.UserRepository, content repository.ContentRepository, progress repository.ProgressRepository, notes repository.NotificationRepository) *ProgressServiceImpl {
	return &ProgressServiceImpl{users: users, content: content, progress: progress, notes: notes, now: time.Now}
}

// CompleteLesson records the completion and applies its side effects.
func (s *ProgressServiceImpl) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.Completion, error) {
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, errors.New("validation: empty userID/lessonID")
	}

	lesson, err := s.content.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("lookup lesson: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Completion{ID: id, UserID: userID, LessonID: lessonID, XPAwarded: lesson.XPReward, CompletedAt: s.now()}
	if err := s.progress.CreateCompletion(ctx, c); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, fmt.Errorf("record completion: %w", err)
	}

	streak := nextStreak(u.Streak, u.LastActiveAt, s.now())
	if err := s.users.UpdateProgress(ctx, userID, u.XP+lesson.XPReward, streak); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	if streak > u.Streak && streak%streakMilestone == 0 {
		s.notifyStreak(ctx, userID, streak)
	}

	return c, nil
}

// nextStreak advances the consecutive-day counter: same day keeps it, the
// next day extends it, any gap resets it to 1.
func nextStreak(current int, lastActive, now time.Time) int {
	if current == 0 {
		return 1
	}
	last := lastActive.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	switch today.Sub(last) {
	case 0:
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}

// notifyStreak queues a milestone notification. Best effort: a failed insert
// must not fail the completion.
func (s *ProgressServiceImpl) notifyStreak(ctx context.Context, userID uuid.UUID, streak int) {
	id, err := uuid.NewV4()
	if err != nil {
		return
	}
	_ = s.notes.Create(ctx, &model.Notification{
		ID:     id,
		UserID: userID,
		Kind:   "streak",
		Body:   fmt.Sprintf("You reached a %d-day streak!", streak),
	})
}

// Leaderboard delegates to the repository with a bounded n.
func (s *ProgressServiceImpl) Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n <= 0 || n > 100 {
		n = 100
	}
	return s.progress.Leaderboard(ctx, n)
}

// UnreadNotifications delegates to the repository.
func (s *ProgressServiceImpl) UnreadNotifications(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.notes.ListUnread(ctx, userID)
}

// MarkNotificationRead delegates to the repository.
func (s *ProgressServiceImpl) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return errors.New("validation: empty userID/id")
	}
	return s.notes.MarkRead(ctx, userID, id)
}

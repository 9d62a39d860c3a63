package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
	"github.com/skillforge/skillforge/internal/repository"
)

type fakeContent struct {
	lessons map[uuid.UUID]*model.Lesson
}

var _ repository.ContentRepository = (*fakeContent)(nil)

func (f *fakeContent) CreateTopic(context.Context, *model.Topic) error { return nil }
func (f *fakeContent) ListTopics(context.Context) ([]model.Topic, error) {
	return nil, nil
}
func (f *fakeContent) GetLesson(_ context.Context, id uuid.UUID) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *l
	return &c, nil
}
func (f *fakeContent) CreateLesson(context.Context, *model.Lesson) error { return nil }
func (f *fakeContent) ListLessons(context.Context, uuid.UUID) ([]model.Lesson, error) {
	return nil, nil
}
func (f *fakeContent) ListQuestions(context.Context, uuid.UUID) ([]model.Question, error) {
	return nil, nil
}
func (f *fakeContent) ListCodeExercises(context.Context, uuid.UUID) ([]model.CodeExercise, error) {
	return nil, nil
}

type completionKey struct{ user, lesson uuid.UUID }

type fakeProgress struct {
	done map[completionKey]bool
}

var _ repository.ProgressRepository = (*fakeProgress)(nil)

func (f *fakeProgress) CreateCompletion(_ context.Context, c *model.Completion) error {
	k := completionKey{c.UserID, c.LessonID}
	if f.done[k] {
		return errs.ErrAlreadyExists
	}
	if f.done == nil {
		f.done = map[completionKey]bool{}
	}
	f.done[k] = true
	return nil
}
func (f *fakeProgress) ListCompletions(context.Context, uuid.UUID) ([]model.Completion, error) {
	return nil, nil
}
func (f *fakeProgress) Leaderboard(context.Context, int) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

type fakeNotes struct {
	created []model.Notification
}

var _ repository.NotificationRepository = (*fakeNotes)(nil)

func (f *fakeNotes) Create(_ context.Context, n *model.Notification) error {
	f.created = append(f.created, *n)
	return nil
}
func (f *fakeNotes) ListUnread(context.Context, uuid.UUID) ([]model.Notification, error) {
	return nil, nil
}
func (f *fakeNotes) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func TestNextStreak(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		current    int
		lastActive time.Time
		now        time.Time
		want       int
	}{
		{"first activity", 0, time.Time{}, day(1), 1},
		{"same day keeps", 3, day(2), day(2), 3},
		{"next day extends", 3, day(2), day(3), 4},
		{"gap resets", 9, day(2), day(5), 1},
	}
	for _, tt := range tests {
		if got := nextStreak(tt.current, tt.lastActive, tt.now); got != tt.want {
			t.Errorf("%s: nextStreak = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestProgress_CompleteLesson(t *testing.T) {
	t.Parallel()

	uid := uuid.Must(uuid.NewV4())
	lid := uuid.Must(uuid.NewV4())
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	users := &fakeUsers{byEmail: map[string]*model.User{
		"judy@example.com": {ID: uid, Email: "judy@example.com", XP: 100, Streak: 2, LastActiveAt: now.Add(-24 * time.Hour)},
	}}
	content := &fakeContent{lessons: map[uuid.UUID]*model.Lesson{
		lid: {ID: lid, Title: "Loops", XPReward: 25},
	}}
	progress := &fakeProgress{done: map[completionKey]bool{}}
	notes := &fakeNotes{}

	s := NewProgressService(users, content, progress, notes)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	c, err := s.CompleteLesson(ctx, uid, lid)
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if c.XPAwarded != 25 {
		t.Fatalf("xp awarded %d, want 25", c.XPAwarded)
	}
	u := users.byEmail["judy@example.com"]
	if u.XP != 125 || u.Streak != 3 {
		t.Fatalf("progress not applied: xp=%d streak=%d", u.XP, u.Streak)
	}

	// Repeat completion is rejected, progress untouched.
	if _, err := s.CompleteLesson(ctx, uid, lid); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on repeat, got %v", err)
	}
	if u.XP != 125 {
		t.Fatalf("xp changed on repeat: %d", u.XP)
	}

	if _, err := s.CompleteLesson(ctx, uid, uuid.Must(uuid.NewV4())); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown lesson, got %v", err)
	}
}

func TestProgress_StreakMilestoneNotifies(t *testing.T) {
	t.Parallel()

	uid := uuid.Must(uuid.NewV4())
	lid := uuid.Must(uuid.NewV4())
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	users := &fakeUsers{byEmail: map[string]*model.User{
		"kim@example.com": {ID: uid, Email: "kim@example.com", Streak: 6, LastActiveAt: now.Add(-24 * time.Hour)},
	}}
	content := &fakeContent{lessons: map[uuid.UUID]*model.Lesson{lid: {ID: lid, XPReward: 10}}}
	notes := &fakeNotes{}

	s := NewProgressService(users, content, &fakeProgress{done: map[completionKey]bool{}}, notes)
	s.now = func() time.Time { return now }

	if _, err := s.CompleteLesson(context.Background(), uid, lid); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if len(notes.created) != 1 {
		t.Fatalf("want 1 milestone notification, got %d", len(notes.created))
	}
	if notes.created[0].Kind != "streak" || notes.created[0].UserID != uid {
		t.Fatalf("bad notification: %+v", notes.created[0])
	}
}

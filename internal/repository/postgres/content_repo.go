package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
)

// ContentRepo implements ContentRepository using PostgreSQL.
type ContentRepo struct{ db *DB }

// NewContentRepo constructs a content repository.
func NewContentRepo(db *DB) *ContentRepo { return &ContentRepo{db: db} }

// CreateTopic inserts a topic row.
func (r *ContentRepo) CreateTopic(ctx context.Context, t *model.Topic) error {
	const q = `
INSERT INTO topics (id, title, description, position)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.Title, t.Description, t.Position)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// ListTopics selects all topics ordered by position.
func (r *ContentRepo) ListTopics(ctx context.Context) ([]model.Topic, error) {
	const q = `
SELECT id, title, description, position, created_at
FROM topics ORDER BY position ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Position, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetLesson selects a lesson by ID.
func (r *ContentRepo) GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	const q = `
SELECT id, topic_id, title, body, xp_reward, position, created_at
FROM lessons WHERE id=$1`
	var l model.Lesson
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&l.ID, &l.TopicID, &l.Title, &l.Body, &l.XPReward, &l.Position, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &l, nil
}

// CreateLesson inserts a lesson row.
func (r *ContentRepo) CreateLesson(ctx context.Context, l *model.Lesson) error {
	const q = `
INSERT INTO lessons (id, topic_id, title, body, xp_reward, position)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, l.ID, l.TopicID, l.Title, l.Body, l.XPReward, l.Position)
	return err
}

// ListLessons selects a topic's lessons ordered by position.
func (r *ContentRepo) ListLessons(ctx context.Context, topicID uuid.UUID) ([]model.Lesson, error) {
	const q = `
SELECT id, topic_id, title, body, xp_reward, position, created_at
FROM lessons WHERE topic_id=$1 ORDER BY position ASC`
	rows, err := r.db.Pool.Query(ctx, q, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.TopicID, &l.Title, &l.Body, &l.XPReward, &l.Position, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListQuestions selects a lesson's questions.
func (r *ContentRepo) ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]model.Question, error) {
	const q = `
SELECT id, lesson_id, prompt, options, correct_index
FROM questions WHERE lesson_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Question
	for rows.Next() {
		var qu model.Question
		if err := rows.Scan(&qu.ID, &qu.LessonID, &qu.Prompt, &qu.Options, &qu.CorrectIndex); err != nil {
			return nil, err
		}
		out = append(out, qu)
	}
	return out, rows.Err()
}

// ListCodeExercises selects a lesson's code exercises.
func (r *ContentRepo) ListCodeExercises(ctx context.Context, lessonID uuid.UUID) ([]model.CodeExercise, error) {
	const q = `
SELECT id, lesson_id, title, prompt, starter_code, expected_output
FROM code_exercises WHERE lesson_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CodeExercise
	for rows.Next() {
		var e model.CodeExercise
		if err := rows.Scan(&e.ID, &e.LessonID, &e.Title, &e.Prompt, &e.StarterCode, &e.ExpectedOutput); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

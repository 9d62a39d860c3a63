package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/model"
)

// ContentRepository provides CRUD access to the learning catalog.
type ContentRepository interface {
	// CreateTopic inserts a topic.
	CreateTopic(ctx context.Context, t *model.Topic) error
	// ListTopics returns all topics ordered by position.
	ListTopics(ctx context.Context) ([]model.Topic, error)
	// GetLesson loads a lesson by ID. Returns errs.ErrNotFound when missing.
	GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	// CreateLesson inserts a lesson under an existing topic.
	CreateLesson(ctx context.Context, l *model.Lesson) error
	// ListLessons returns a topic's lessons ordered by position.
	ListLessons(ctx context.Context, topicID uuid.UUID) ([]model.Lesson, error)
	// ListQuestions returns a lesson's questions.
	ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]model.Question, error)
	// ListCodeExercises returns a lesson's code exercises.
	ListCodeExercises(ctx context.Context, lessonID uuid.UUID) ([]model.CodeExercise, error)
}

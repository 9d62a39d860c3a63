package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/model"
	"github.com/skillforge/skillforge/internal/repository"
)

// ContentService defines read/write operations over the learning catalog.
type ContentService interface {
	// CreateTopic inserts a new topic.
	CreateTopic(ctx context.Context, title, description string, position int) (*model.Topic, error)
	// ListTopics returns all topics ordered by position.
	ListTopics(ctx context.Context) ([]model.Topic, error)
	// CreateLesson inserts a new lesson under a topic.
	CreateLesson(ctx context.Context, topicID uuid.UUID, title, body string, xpReward int64, position int) (*model.Lesson, error)
	// ListLessons returns a topic's lessons ordered by position.
	ListLessons(ctx context.Context, topicID uuid.UUID) ([]model.Lesson, error)
	// ListQuestions returns a lesson's questions.
	ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]model.Question, error)
	// ListCodeExercises returns a lesson's code exercises.
	ListCodeExercises(ctx context.Context, lessonID uuid.UUID) ([]model.CodeExercise, error)
}

type ContentServiceImpl struct {
	content repository.ContentRepository
}

// NewContentService constructs ContentService.
func NewContentService(content repository.ContentRepository) *ContentServiceImpl {
	return &ContentServiceImpl{content: content}
}

// CreateTopic validates input and persists a topic.
func (s *ContentServiceImpl) CreateTopic(ctx context.Context, title, description string, position int) (*model.Topic, error) {
	if title == "" {
		return nil, errors.New("validation: empty title")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t := &model.Topic{ID: id, Title: title, Description: description, Position: position}
	if err := s.content.CreateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTopics delegates to the repository.
func (s *ContentServiceImpl) ListTopics(ctx context.Context) ([]model.Topic, error) {
	return s.content.ListTopics(ctx)
}

// CreateLesson validates input and persists a lesson.
func (s *ContentServiceImpl) CreateLesson(ctx context.Context, topicID uuid.UUID, title, body string, xpReward int64, position int) (*model.Lesson, error) {
	if topicID == uuid.Nil {
		return nil, errors.New("validation: empty topicID")
	}
	if title == "" {
		return nil, errors.New("validation: empty title")
	}
	if xpReward < 0 {
		return nil, errors.New("validation: negative xp reward")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	l := &model.Lesson{ID: id, TopicID: topicID, Title: title, Body: body, XPReward: xpReward, Position: position}
	if err := s.content.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLessons delegates to the repository.
func (s *ContentServiceImpl) ListLessons(ctx context.Context, topicID uuid.UUID) ([]model.Lesson, error) {
	if topicID == uuid.Nil {
		return nil, errors.New("validation: empty topicID")
	}
	return s.content.ListLessons(ctx, topicID)
}

// ListQuestions delegates to the repository.
func (s *ContentServiceImpl) ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]model.Question, error) {
	if lessonID == uuid.Nil {
		return nil, errors.New("validation: empty lessonID")
	}
	return s.content.ListQuestions(ctx, lessonID)
}

// ListCodeExercises delegates to the repository.
func (s *ContentServiceImpl) ListCodeExercises(ctx context.Context, lessonID uuid.UUID) ([]model.CodeExercise, error) {
	if lessonID == uuid.Nil {
		return nil, errors.New("validation: empty lessonID")
	}
	return s.content.ListCodeExercises(ctx, lessonID)
}

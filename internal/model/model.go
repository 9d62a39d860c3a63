// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User is an account record. The password is stored only as its encoded
// argon2id hash; XP/streak fields belong to the progress subsystem and are
// merely carried here.
type User struct {
	ID           uuid.UUID // PK, immutable after creation
	Email        string    // unique, normalized (lowercase, trimmed)
	PasswordHash string    // PHC-encoded argon2id hash
	DisplayName  string
	XP           int64
	Streak       int // consecutive active days
	LastActiveAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionToken is the issued bearer token plus its metadata. Possession
// equals authorization: there is no server-side session store.
type SessionToken struct {
	AccessToken string
	TokenType   string    // always "Bearer"
	ExpiresIn   int64     // seconds until expiry at issuance time
	ExpiresAt   time.Time
}

// Topic groups lessons into a course-level unit.
type Topic struct {
	ID          uuid.UUID
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
}

// Lesson is a single unit of content inside a topic.
type Lesson struct {
	ID        uuid.UUID
	TopicID   uuid.UUID
	Title     string
	Body      string
	XPReward  int64
	Position  int
	CreatedAt time.Time
}

// Question is a multiple-choice check attached to a lesson.
type Question struct {
	ID           uuid.UUID
	LessonID     uuid.UUID
	Prompt       string
	Options      []string
	CorrectIndex int
}

// CodeExercise is a programming task attached to a lesson.
type CodeExercise struct {
	ID             uuid.UUID
	LessonID       uuid.UUID
	Title          string
	Prompt         string
	StarterCode    string
	ExpectedOutput string
}

// Completion records that a user finished a lesson and what it paid out.
type Completion struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	LessonID    uuid.UUID
	XPAwarded   int64
	CompletedAt time.Time
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank        int
	UserID      uuid.UUID
	DisplayName string
	XP          int64
}

// Notification is a message queued for a user to read.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      string
	Body      string
	Read      bool
	CreatedAt time.Time
}

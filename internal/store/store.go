package store

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// QuizAttempt is one full run of the quiz by a user. AttemptNumber is
// monotonically increasing per user.
type QuizAttempt struct {
	ID             int64
	UserID         int64
	AttemptNumber  int
	Score          float64
	KnowledgeLevel float64
	WeakAreas      map[string]int
}

// QuestionLogEntry is the append-only record of one answered question.
type QuestionLogEntry struct {
	ID            int64
	QuizID        int64
	AttemptNumber int
	Question      string
	CorrectAnswer string
	IsCorrect     bool
	WeakArea      string
}

// MissedQuestion is a frequently-missed question aggregated from the
// log, used to build retake quizzes.
type MissedQuestion struct {
	Question      string
	CorrectAnswer string
	WeakArea      string
	AttemptNumber int
	MissCount     int
}

// LeaderboardRow is a user's best attempt.
type LeaderboardRow struct {
	UserID   int64
	Username string
	Score    float64
}

// VideoResource is a recommended learning video tagged with the weak
// area it addresses. JSON tags match the seed file format.
type VideoResource struct {
	ID          int64  `json:"-"`
	WeakArea    string `json:"weak_area"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// VideoTrack records whether a user watched a recommended video during
// a given quiz attempt. One row per (user, video, quiz) triple.
type VideoTrack struct {
	ID        int64
	UserID    int64
	QuizID    int64
	VideoID   int64
	Watched   bool
	UpdatedAt time.Time
}

// VideoHistoryEntry is a track row joined with its video resource.
type VideoHistoryEntry struct {
	QuizID    int64
	VideoID   int64
	Title     string
	URL       string
	WeakArea  string
	Watched   bool
	UpdatedAt time.Time
}

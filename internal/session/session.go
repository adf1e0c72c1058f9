package session

import (
	"context"
	"errors"

	"github.com/adaptiq/backend/internal/quiz"
)

var ErrNotFound = errors.New("session not found")

// Identity is who the session belongs to, set at login.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Session is the server-side state behind one client token: the
// authenticated identity plus the active quiz, if any.
type Session struct {
	Identity Identity    `json:"identity"`
	Quiz     *quiz.State `json:"quiz,omitempty"`
}

// clone returns a deep copy, so the caller can mutate the result
// without touching the original's quiz state.
func (s Session) clone() Session {
	out := s
	if s.Quiz != nil {
		q := *s.Quiz
		q.Asked = append([]int(nil), s.Quiz.Asked...)
		if s.Quiz.WeakAreas != nil {
			q.WeakAreas = make(map[string]int, len(s.Quiz.WeakAreas))
			for area, n := range s.Quiz.WeakAreas {
				q.WeakAreas[area] = n
			}
		}
		out.Quiz = &q
	}
	return out
}

// Store keeps sessions keyed by an opaque client-held token.
//
// Update runs the whole read-modify-write of a session as one logical
// step, so concurrent requests against the same token cannot interleave
// their mutations.
type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, token string) (Session, error)
	Update(ctx context.Context, token string, fn func(*Session) error) error
	Delete(ctx context.Context, token string) error
}

package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/session"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	token, err := store.Create(ctx, session.Session{
		Identity: session.Identity{UserID: 1, Username: "gopher"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity.Username != "gopher" {
		t.Errorf("unexpected identity %+v", got.Identity)
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	err := store.Update(ctx, "nope", func(*session.Session) error { return nil })
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	token, err := store.Create(ctx, session.Session{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected expired session, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	token, _ := store.Create(ctx, session.Session{})
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreUpdateIsAtomic(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	token, _ := store.Create(ctx, session.Session{})

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := store.Update(ctx, token, func(s *session.Session) error {
				s.Identity.UserID++
				return nil
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity.UserID != workers {
		t.Errorf("expected %d increments, got %d", workers, got.Identity.UserID)
	}
}

func TestMemoryStoreUpdateErrorRollsBack(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	token, _ := store.Create(ctx, session.Session{
		Identity: session.Identity{Username: "gopher"},
		Quiz:     quiz.NewState(1, 1, 1),
	})

	boom := errors.New("boom")
	err := store.Update(ctx, token, func(s *session.Session) error {
		s.Identity.Username = "half-committed"
		s.Quiz.Score = 99
		s.Quiz.Asked = append(s.Quiz.Asked, 5)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get after failed update: %v", err)
	}
	if got.Identity.Username != "gopher" {
		t.Errorf("session username is %q, want %q", got.Identity.Username, "gopher")
	}
	if got.Quiz.Score != 0 {
		t.Errorf("quiz score is %v, want 0", got.Quiz.Score)
	}
	if len(got.Quiz.Asked) != 0 {
		t.Errorf("asked list is %v, want empty", got.Quiz.Asked)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	token, _ := store.Create(ctx, session.Session{Quiz: quiz.NewState(1, 1, 1)})

	first, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Quiz.Score = 42

	second, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.Quiz.Score != 0 {
		t.Errorf("mutation through a Get result leaked into the store: score %v", second.Quiz.Score)
	}
}

package store_test

import (
	"context"
	"testing"

	"github.com/adaptiq/backend/internal/store"
)

func TestVideoTrackUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, _ := s.CreateUser(ctx, "gopher", "hash")
	quizID, _ := s.CreateQuizAttempt(ctx, userID, 1, 0.5, 0)
	videoID, err := s.SaveVideoResource(ctx, store.VideoResource{
		WeakArea: "Pointers", Title: "Pointers in 10 minutes", URL: "https://example.com/3",
	})
	if err != nil {
		t.Fatalf("save video: %v", err)
	}

	if err := s.UpsertVideoTrack(ctx, userID, quizID, videoID, true); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.UpsertVideoTrack(ctx, userID, quizID, videoID, false); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	history, err := s.VideoHistoryByUser(ctx, userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly one track row, got %d", len(history))
	}
	if history[0].Watched {
		t.Error("expected watched flag to reflect the latest call")
	}
}

func TestWatchedVideoIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, _ := s.CreateUser(ctx, "gopher", "hash")
	quizID, _ := s.CreateQuizAttempt(ctx, userID, 1, 0.5, 0)
	watched, _ := s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "A", Title: "t", URL: "u"})
	skipped, _ := s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "B", Title: "t", URL: "u"})

	s.UpsertVideoTrack(ctx, userID, quizID, watched, true)
	s.UpsertVideoTrack(ctx, userID, quizID, skipped, false)

	ids, err := s.WatchedVideoIDs(ctx, userID, quizID)
	if err != nil {
		t.Fatalf("watched ids: %v", err)
	}
	if !ids[watched] {
		t.Error("expected watched video to be flagged")
	}
	if ids[skipped] {
		t.Error("expected unwatched video to be unflagged")
	}
}

func TestListVideosByWeakAreas(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "Pointers", Title: "p", URL: "u"})
	s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "Types", Title: "t", URL: "u"})
	s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "Concurrency", Title: "c", URL: "u"})

	videos, err := s.ListVideosByWeakAreas(ctx, []string{"Pointers", "Concurrency"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	for _, v := range videos {
		if v.WeakArea == "Types" {
			t.Errorf("unexpected video for unrequested area: %+v", v)
		}
	}
}

func TestDeleteVideoTracksByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, _ := s.CreateUser(ctx, "alice", "hash")
	bob, _ := s.CreateUser(ctx, "bob", "hash")
	aliceQuiz, _ := s.CreateQuizAttempt(ctx, alice, 1, 0.5, 0)
	bobQuiz, _ := s.CreateQuizAttempt(ctx, bob, 1, 0.5, 0)
	videoID, _ := s.SaveVideoResource(ctx, store.VideoResource{WeakArea: "A", Title: "t", URL: "u"})

	s.UpsertVideoTrack(ctx, alice, aliceQuiz, videoID, true)
	s.UpsertVideoTrack(ctx, bob, bobQuiz, videoID, true)

	if err := s.DeleteVideoTracksByUser(ctx, alice); err != nil {
		t.Fatalf("delete: %v", err)
	}

	aliceHistory, _ := s.VideoHistoryByUser(ctx, alice)
	if len(aliceHistory) != 0 {
		t.Errorf("expected alice's tracks gone, got %d", len(aliceHistory))
	}
	bobHistory, _ := s.VideoHistoryByUser(ctx, bob)
	if len(bobHistory) != 1 {
		t.Errorf("expected bob's tracks intact, got %d", len(bobHistory))
	}
}

package store

import (
	"context"
	"strings"
	"time"
)

// ============================================================================
// Video resources
// ============================================================================

func (s *SQLiteStore) SaveVideoResource(ctx context.Context, v VideoResource) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO video_resources (weak_area, title, url, description) VALUES (?, ?, ?, ?)",
		v.WeakArea, v.Title, v.URL, v.Description,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) CountVideoResources(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_resources").Scan(&n)
	return n, err
}

// ListVideosByWeakAreas returns resources whose weak-area tag matches
// any of the given tags. The IN clause is built from placeholders, one
// per value; never from concatenated user input.
func (s *SQLiteStore) ListVideosByWeakAreas(ctx context.Context, weakAreas []string) ([]VideoResource, error) {
	if len(weakAreas) == 0 {
		return nil, nil
	}

	args := make([]any, len(weakAreas))
	for i, tag := range weakAreas {
		args[i] = tag
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT video_id, weak_area, title, url, description FROM video_resources WHERE weak_area IN ("+placeholders(len(args))+") ORDER BY video_id",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []VideoResource
	for rows.Next() {
		var v VideoResource
		if err := rows.Scan(&v.ID, &v.WeakArea, &v.Title, &v.URL, &v.Description); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// ============================================================================
// Video tracking
// ============================================================================

// UpsertVideoTrack records that a user interacted with a video during
// a quiz attempt. The (user, video, quiz) triple is unique; repeated
// calls update the watched flag and timestamp in place.
func (s *SQLiteStore) UpsertVideoTrack(ctx context.Context, userID, quizID, videoID int64, watched bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO video_tracks (user_id, quiz_id, video_id, watched, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, video_id, quiz_id)
		DO UPDATE SET watched = excluded.watched, updated_at = excluded.updated_at`,
		userID, quizID, videoID, watched, time.Now().UTC(),
	)
	return err
}

// WatchedVideoIDs returns the set of video ids the user has marked
// watched for the given quiz attempt.
func (s *SQLiteStore) WatchedVideoIDs(ctx context.Context, userID, quizID int64) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT video_id, watched FROM video_tracks WHERE user_id = ? AND quiz_id = ?",
		userID, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	watched := make(map[int64]bool)
	for rows.Next() {
		var id int64
		var w bool
		if err := rows.Scan(&id, &w); err != nil {
			return nil, err
		}
		watched[id] = w
	}
	return watched, rows.Err()
}

func (s *SQLiteStore) DeleteVideoTracksByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM video_tracks WHERE user_id = ?", userID)
	return err
}

// VideoHistoryByUser returns the user's track rows joined with their
// video resources, newest interaction first.
func (s *SQLiteStore) VideoHistoryByUser(ctx context.Context, userID int64) ([]VideoHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vt.quiz_id, vt.video_id, vr.title, vr.url, vr.weak_area, vt.watched, vt.updated_at
		FROM video_tracks vt
		JOIN video_resources vr ON vr.video_id = vt.video_id
		WHERE vt.user_id = ?
		ORDER BY vt.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []VideoHistoryEntry
	for rows.Next() {
		var e VideoHistoryEntry
		if err := rows.Scan(&e.QuizID, &e.VideoID, &e.Title, &e.URL, &e.WeakArea, &e.Watched, &e.UpdatedAt); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

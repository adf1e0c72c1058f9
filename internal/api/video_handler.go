package api

import (
	"errors"
	"net/http"
	"time"
)

type TrackVideoRequest struct {
	VideoID int64 `json:"video_id" example:"3"`
	QuizID  int64 `json:"quiz_id" example:"7"`
	Watched bool  `json:"watched" example:"true"`
}

func (r *TrackVideoRequest) Validate() error {
	if r.VideoID == 0 {
		return errors.New("video_id is required")
	}
	if r.QuizID == 0 {
		return errors.New("quiz_id is required")
	}
	return nil
}

type VideoHistoryItem struct {
	VideoID   int64     `json:"video_id" example:"3"`
	Title     string    `json:"title" example:"Pointers in 10 minutes"`
	URL       string    `json:"url" example:"https://example.com/watch/3"`
	WeakArea  string    `json:"weak_area" example:"Pointers"`
	Watched   bool      `json:"watched" example:"true"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VideoHistoryGroup struct {
	QuizID int64              `json:"quiz_id" example:"7"`
	Videos []VideoHistoryItem `json:"videos"`
}

type VideoHistoryResponse struct {
	History []VideoHistoryGroup `json:"history"`
}

// trackVideo records whether the user watched a recommended video
// during a quiz attempt. Calling it again overwrites the flag.
// @Summary      Track a video
// @Tags         Videos
// @Accept       json
// @Produce      json
// @Param        body  body      TrackVideoRequest  true  "Watch state"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/track_video [post]
func (h *Handler) trackVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req TrackVideoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.store.UpsertVideoTrack(ctx, sess.Identity.UserID, req.QuizID, req.VideoID, req.Watched)
	if h.handleStoreError(w, err, "video track") {
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Video status updated!"})
}

// videoHistory lists the user's tracked videos grouped by attempt,
// most recently updated first.
// @Summary      Video watch history
// @Tags         Videos
// @Produce      json
// @Success      200  {object}  VideoHistoryResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/video_history [get]
func (h *Handler) videoHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	entries, err := h.store.VideoHistoryByUser(ctx, sess.Identity.UserID)
	if h.handleStoreError(w, err, "video history") {
		return
	}

	// Entries arrive ordered by update time, so grouping preserves
	// recency within and across attempts.
	groups := make([]VideoHistoryGroup, 0)
	index := map[int64]int{}
	for _, e := range entries {
		i, seen := index[e.QuizID]
		if !seen {
			i = len(groups)
			index[e.QuizID] = i
			groups = append(groups, VideoHistoryGroup{QuizID: e.QuizID})
		}
		groups[i].Videos = append(groups[i].Videos, VideoHistoryItem{
			VideoID:   e.VideoID,
			Title:     e.Title,
			URL:       e.URL,
			WeakArea:  e.WeakArea,
			Watched:   e.Watched,
			UpdatedAt: e.UpdatedAt,
		})
	}

	respondJSON(w, http.StatusOK, VideoHistoryResponse{History: groups})
}

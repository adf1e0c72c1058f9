package api

import (
	"net/http"

	"github.com/adaptiq/backend/internal/store"
)

// IncorrectQuestion is one missed question together with the answer
// that would have been right.
type IncorrectQuestion struct {
	Question      string `json:"question" example:"What is a channel?"`
	CorrectAnswer string `json:"correct_answer" example:"A typed conduit"`
}

type AttemptRecord struct {
	QuizID              int64               `json:"quiz_id" example:"7"`
	AttemptNumber       int                 `json:"attempt_number" example:"2"`
	TotalQuestions      int                 `json:"total_questions" example:"10"`
	FinalScore          float64             `json:"final_score" example:"12.5"`
	FinalKnowledgeLevel float64             `json:"final_knowledge_level" example:"0.8"`
	WeakAreas           map[string]int      `json:"weak_areas"`
	CorrectAnswers      int                 `json:"correct_answers" example:"8"`
	IncorrectAnswers    int                 `json:"incorrect_answers" example:"2"`
	CorrectQuestions    []string            `json:"correct_questions"`
	IncorrectQuestions  []IncorrectQuestion `json:"incorrect_questions"`
}

type PreviousRecordsResponse struct {
	History []AttemptRecord `json:"history"`
}

type RecommendedVideo struct {
	VideoID     int64  `json:"video_id" example:"3"`
	Title       string `json:"title" example:"Pointers in 10 minutes"`
	URL         string `json:"url" example:"https://example.com/watch/3"`
	WeakArea    string `json:"weak_area" example:"Pointers"`
	Description string `json:"description,omitempty"`
	Watched     *bool  `json:"watched,omitempty"`
}

type WeakAreasResponse struct {
	QuizID            int64              `json:"quiz_id" example:"7"`
	WeakAreas         map[string]int     `json:"weak_areas"`
	RecommendedVideos []RecommendedVideo `json:"recommended_videos"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank" example:"1"`
	Username string  `json:"username" example:"gopher"`
	Score    float64 `json:"score" example:"18.5"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// previousRecords lists every past attempt of the logged-in user,
// newest first, with per-attempt answer counts from the question log.
// @Summary      Attempt history
// @Tags         Insights
// @Produce      json
// @Success      200  {object}  PreviousRecordsResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/previous_records [get]
func (h *Handler) previousRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	attempts, err := h.store.ListAttemptsByUser(ctx, sess.Identity.UserID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	history := make([]AttemptRecord, 0, len(attempts))
	for _, attempt := range attempts {
		entries, err := h.store.ListQuestionLogByQuiz(ctx, attempt.ID)
		if h.handleStoreError(w, err, "question log") {
			return
		}
		correct := make([]string, 0, len(entries))
		incorrect := make([]IncorrectQuestion, 0)
		for _, e := range entries {
			if e.IsCorrect {
				correct = append(correct, e.Question)
			} else {
				incorrect = append(incorrect, IncorrectQuestion{
					Question:      e.Question,
					CorrectAnswer: e.CorrectAnswer,
				})
			}
		}
		history = append(history, AttemptRecord{
			QuizID:              attempt.ID,
			AttemptNumber:       attempt.AttemptNumber,
			TotalQuestions:      len(entries),
			FinalScore:          attempt.Score,
			FinalKnowledgeLevel: attempt.KnowledgeLevel,
			WeakAreas:           attempt.WeakAreas,
			CorrectAnswers:      len(correct),
			IncorrectAnswers:    len(incorrect),
			CorrectQuestions:    correct,
			IncorrectQuestions:  incorrect,
		})
	}

	respondJSON(w, http.StatusOK, PreviousRecordsResponse{History: history})
}

// weakAreas reports the latest attempt's weak-area tally with video
// recommendations for each area.
// @Summary      Weak areas
// @Tags         Insights
// @Produce      json
// @Success      200  {object}  WeakAreasResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string  "no attempts yet"
// @Failure      500  {object}  map[string]string
// @Router       /api/weak_areas [get]
func (h *Handler) weakAreas(w http.ResponseWriter, r *http.Request) {
	h.respondWeakAreas(w, r, false)
}

// weakAreasLatest is weakAreas with each recommendation carrying the
// user's watched flag for the latest attempt.
// @Summary      Weak areas with watch state
// @Tags         Insights
// @Produce      json
// @Success      200  {object}  WeakAreasResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string  "no attempts yet"
// @Failure      500  {object}  map[string]string
// @Router       /api/weak_areas_latest [get]
func (h *Handler) weakAreasLatest(w http.ResponseWriter, r *http.Request) {
	h.respondWeakAreas(w, r, true)
}

func (h *Handler) respondWeakAreas(w http.ResponseWriter, r *http.Request, withWatched bool) {
	ctx := r.Context()
	_, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	userID := sess.Identity.UserID

	attempt, err := h.store.LatestAttemptByUser(ctx, userID)
	if h.handleStoreError(w, err, "attempt") {
		return
	}

	areas := make([]string, 0, len(attempt.WeakAreas))
	for area := range attempt.WeakAreas {
		areas = append(areas, area)
	}

	var videos []store.VideoResource
	if len(areas) > 0 {
		videos, err = h.store.ListVideosByWeakAreas(ctx, areas)
		if h.handleStoreError(w, err, "videos") {
			return
		}
	}

	var watched map[int64]bool
	if withWatched {
		watched, err = h.store.WatchedVideoIDs(ctx, userID, attempt.ID)
		if h.handleStoreError(w, err, "video tracks") {
			return
		}
	}

	recommended := make([]RecommendedVideo, 0, len(videos))
	for _, v := range videos {
		rec := RecommendedVideo{
			VideoID:     v.ID,
			Title:       v.Title,
			URL:         v.URL,
			WeakArea:    v.WeakArea,
			Description: v.Description,
		}
		if withWatched {
			seen := watched[v.ID]
			rec.Watched = &seen
		}
		recommended = append(recommended, rec)
	}

	respondJSON(w, http.StatusOK, WeakAreasResponse{
		QuizID:            attempt.ID,
		WeakAreas:         attempt.WeakAreas,
		RecommendedVideos: recommended,
	})
}

// leaderboard returns each user's best score, highest first.
// @Summary      Leaderboard
// @Tags         Insights
// @Produce      json
// @Success      200  {object}  LeaderboardResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/leaderboard [get]
func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.TopScores(r.Context())
	if h.handleStoreError(w, err, "leaderboard") {
		return
	}

	board := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		board = append(board, LeaderboardEntry{
			Rank:     i + 1,
			Username: row.Username,
			Score:    row.Score,
		})
	}

	respondJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: board})
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/session"
	"github.com/adaptiq/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartQuizResponse struct {
	Message        string  `json:"message" example:"Quiz started!"`
	QuizID         int64   `json:"quiz_id" example:"7"`
	KnowledgeLevel float64 `json:"knowledge_level" example:"0.5"`
}

type NextQuestionResponse struct {
	QuestionID int      `json:"question_id" example:"42"`
	Question   string   `json:"question" example:"What does a goroutine run on?"`
	Options    []string `json:"options"`
}

type QuizCompletedResponse struct {
	Message string       `json:"message" example:"Quiz completed!"`
	Results *QuizResults `json:"results"`
}

type QuizResults struct {
	QuizID              int64          `json:"quiz_id" example:"7"`
	TotalQuestions      int            `json:"total_questions" example:"10"`
	FinalScore          float64        `json:"final_score" example:"12.5"`
	FinalKnowledgeLevel float64        `json:"final_knowledge_level" example:"0.8"`
	WeakAreas           map[string]int `json:"weak_areas"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" example:"The Go runtime scheduler"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.Answer == "" {
		return errors.New("answer is required")
	}
	return nil
}

type SubmitAnswerResponse struct {
	Correct bool    `json:"correct" example:"true"`
	Message string  `json:"message" example:"Correct!"`
	Score   float64 `json:"score" example:"4.5"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startQuiz creates a new quiz attempt for the logged-in user.
// @Summary      Start a quiz
// @Description  Create a fresh attempt at knowledge level 0.5 and reset the user's video tracking.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  StartQuizResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/start_quiz [post]
func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	userID := sess.Identity.UserID

	// A new run supersedes any recommendations from the previous one.
	if err := h.store.DeleteVideoTracksByUser(ctx, userID); err != nil {
		h.logger.Error("clear video tracks", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	maxAttempt, err := h.store.MaxAttemptNumber(ctx, userID)
	if err != nil {
		h.logger.Error("max attempt number", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	attemptNumber := maxAttempt + 1

	quizID, err := h.store.CreateQuizAttempt(ctx, userID, attemptNumber, quiz.InitialKnowledgeLevel, 0)
	if err != nil {
		h.logger.Error("create attempt", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	err = h.sessions.Update(ctx, token, func(s *session.Session) error {
		s.Quiz = quiz.NewState(quizID, userID, attemptNumber)
		return nil
	})
	if err != nil {
		h.logger.Error("init session state", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, StartQuizResponse{
		Message:        "Quiz started!",
		QuizID:         quizID,
		KnowledgeLevel: quiz.InitialKnowledgeLevel,
	})
}

// nextQuestion returns the next adaptive question, or the final
// results once enough questions were asked.
// @Summary      Next question
// @Description  Adaptive selection: nearest-difficulty shortlist around the learner's level. After 10 questions the quiz completes.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  NextQuestionResponse
// @Failure      400  {object}  map[string]string  "no active quiz"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/next_question [get]
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var (
		completed  *QuizResults
		exhausted  bool
		questionID int
		question   string
		correct    string
	)

	err := h.sessions.Update(ctx, token, func(s *session.Session) error {
		if s.Quiz == nil {
			return errNoActiveQuiz
		}

		if quiz.Complete(s.Quiz) {
			results, err := h.finalize(ctx, s.Quiz)
			if err != nil {
				return err
			}
			completed = results
			return nil
		}

		index, found := h.selector.Pick(h.bank, s.Quiz)
		if !found {
			exhausted = true
			return nil
		}

		q, _ := h.bank.Question(index)
		s.Quiz.Asked = append(s.Quiz.Asked, index)
		questionID = q.Index
		question = q.Text
		correct = q.Answer
		return nil
	})
	if h.handleQuizFlowError(w, err, token) {
		return
	}

	switch {
	case completed != nil:
		respondJSON(w, http.StatusOK, QuizCompletedResponse{
			Message: "Quiz completed!",
			Results: completed,
		})
	case exhausted:
		respondJSON(w, http.StatusOK, map[string]string{"message": "No more available questions!"})
	default:
		respondJSON(w, http.StatusOK, NextQuestionResponse{
			QuestionID: questionID,
			Question:   question,
			Options:    h.shuffledOptions(correct),
		})
	}
}

// submitAnswer grades the most recently asked question.
// @Summary      Submit an answer
// @Description  Grade the last question by exact match, log it, and update score and knowledge level.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      SubmitAnswerRequest  true  "The chosen option"
// @Success      200   {object}  SubmitAnswerResponse
// @Failure      400   {object}  map[string]string  "no active question"
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/submit_answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var result quiz.AnswerResult

	err := h.sessions.Update(ctx, token, func(s *session.Session) error {
		if s.Quiz == nil {
			return errNoActiveQuiz
		}
		index, asked := s.Quiz.LastAsked()
		if !asked {
			return errNoActiveQuestion
		}

		q, found := h.bank.Question(index)
		if !found {
			return fmt.Errorf("asked question %d not in bank", index)
		}

		result = quiz.Apply(s.Quiz, q, req.Answer)

		if err := h.store.InsertQuestionLog(ctx, store.QuestionLogEntry{
			QuizID:        s.Quiz.QuizID,
			AttemptNumber: s.Quiz.AttemptNumber,
			Question:      q.Text,
			CorrectAnswer: q.Answer,
			IsCorrect:     result.Correct,
			WeakArea:      q.Category,
		}); err != nil {
			return err
		}

		return h.store.UpdateQuizAttemptProgress(ctx, s.Quiz.QuizID, s.Quiz.Score, s.Quiz.KnowledgeLevel)
	})
	if h.handleQuizFlowError(w, err, token) {
		return
	}

	message := "Correct!"
	if !result.Correct {
		message = fmt.Sprintf("Incorrect! The correct answer was %s", result.CorrectAnswer)
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Correct: result.Correct,
		Message: message,
		Score:   result.Score,
	})
}

// quizResults finalizes the active attempt and returns the summary.
// @Summary      Quiz results
// @Description  Persist the final score, knowledge level and weak-area tally, and return the summary.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  QuizResults
// @Failure      400  {object}  map[string]string  "no active quiz"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/quiz_results [get]
func (h *Handler) quizResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var results *QuizResults

	err := h.sessions.Update(ctx, token, func(s *session.Session) error {
		if s.Quiz == nil {
			return errNoActiveQuiz
		}
		summary, err := h.finalize(ctx, s.Quiz)
		if err != nil {
			return err
		}
		results = summary
		return nil
	})
	if h.handleQuizFlowError(w, err, token) {
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// finalize persists the attempt's final state and builds the summary.
func (h *Handler) finalize(ctx context.Context, state *quiz.State) (*QuizResults, error) {
	if err := h.store.FinalizeQuizAttempt(ctx, state.QuizID, state.Score, state.KnowledgeLevel, state.WeakAreas); err != nil {
		return nil, err
	}
	return &QuizResults{
		QuizID:              state.QuizID,
		TotalQuestions:      len(state.Asked),
		FinalScore:          state.Score,
		FinalKnowledgeLevel: state.KnowledgeLevel,
		WeakAreas:           state.WeakAreas,
	}, nil
}

var (
	errNoActiveQuiz     = errors.New("Start the quiz first!")
	errNoActiveQuestion = errors.New("No active question found!")
)

// handleQuizFlowError maps session/flow errors from an Update closure
// to HTTP responses. Returns true if an error was handled.
func (h *Handler) handleQuizFlowError(w http.ResponseWriter, err error, token string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, errNoActiveQuiz), errors.Is(err, errNoActiveQuestion):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusUnauthorized, "login required")
	default:
		h.logger.Error("quiz flow error", "error", err, "session", token)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

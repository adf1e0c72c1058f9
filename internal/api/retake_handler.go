package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/adaptiq/backend/internal/store"
)

const retakeQuestionCount = 10

type RetakeQuestion struct {
	Question string   `json:"question" example:"What does a goroutine run on?"`
	Options  []string `json:"options"`
	WeakArea string   `json:"weakarea" example:"Concurrency"`
}

type RetakeQuestionsResponse struct {
	Status                  string           `json:"status" example:"success"`
	QuestionsWithFakeAnswer []RetakeQuestion `json:"questions_with_fake_answers"`
}

type AnswerPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BatchSubmitRequest struct {
	Answers []AnswerPair `json:"answers"`
}

func (r *BatchSubmitRequest) Validate() error {
	if r.Answers == nil {
		return errors.New("answers is required")
	}
	return nil
}

type AnswerDetail struct {
	Question       string `json:"question"`
	SelectedAnswer string `json:"selected_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	WeakArea       string `json:"weak_area,omitempty"`
}

type WeakAreaCount struct {
	WeakArea string `json:"weak_area" example:"Pointers"`
	Count    int    `json:"count" example:"3"`
}

type BatchSubmitResponse struct {
	Status           string          `json:"status" example:"success"`
	AttemptID        int64           `json:"attempt_id,omitempty" example:"8"`
	CorrectAnswers   int             `json:"correct_answers" example:"7"`
	TotalQuestions   int             `json:"total_questions" example:"10"`
	ScorePercentage  float64         `json:"score_percentage" example:"70"`
	AnswersDetails   []AnswerDetail  `json:"answers_details"`
	WeakAreasSummary []WeakAreaCount `json:"weakareas_summary,omitempty"`
}

// getQuizQuestions returns the most frequently missed questions with
// freshly shuffled options, for a retake round.
// @Summary      Retake questions
// @Description  Top frequently-missed questions, each counted at its latest attempt, with regenerated options.
// @Tags         Retake
// @Produce      json
// @Success      200  {object}  RetakeQuestionsResponse
// @Failure      404  {object}  map[string]string  "nothing missed yet"
// @Failure      500  {object}  map[string]string
// @Router       /api/get_quiz_questions [get]
func (h *Handler) getQuizQuestions(w http.ResponseWriter, r *http.Request) {
	missed, err := h.store.FrequentlyMissed(r.Context(), retakeQuestionCount)
	if h.handleStoreError(w, err, "missed questions") {
		return
	}
	if len(missed) == 0 {
		respondError(w, http.StatusNotFound, "missed questions not found")
		return
	}

	questions := make([]RetakeQuestion, 0, len(missed))
	for _, m := range missed {
		questions = append(questions, RetakeQuestion{
			Question: m.Question,
			Options:  h.shuffledOptions(m.CorrectAnswer),
			WeakArea: m.WeakArea,
		})
	}

	respondJSON(w, http.StatusOK, RetakeQuestionsResponse{
		Status:                  "success",
		QuestionsWithFakeAnswer: questions,
	})
}

// submitQuizBank batch-grades an answer set against the question bank
// and records the round as a new attempt.
// @Summary      Submit a retake round
// @Description  Grade each pair against the dataset, log every valid pair, and persist score percentage and knowledge estimate as a new attempt.
// @Tags         Retake
// @Accept       json
// @Produce      json
// @Param        body  body      BatchSubmitRequest  true  "Question/answer pairs"
// @Success      200   {object}  BatchSubmitResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/submit_quiz_re [post]
func (h *Handler) submitQuizBank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	userID := sess.Identity.UserID

	var req BatchSubmitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	maxAttempt, err := h.store.MaxAttemptNumber(ctx, userID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}
	attemptNumber := maxAttempt + 1

	quizID, err := h.store.CreateQuizAttempt(ctx, userID, attemptNumber, 0, 0)
	if h.handleStoreError(w, err, "attempt") {
		return
	}

	correct := 0
	weakAreas := map[string]int{}
	details := make([]AnswerDetail, 0, len(req.Answers))

	for _, pair := range req.Answers {
		if pair.Question == "" || pair.Answer == "" {
			continue
		}
		q, found := h.bank.ByText(pair.Question)
		if !found {
			continue
		}

		isCorrect := pair.Answer == q.Answer
		if isCorrect {
			correct++
		} else {
			weakAreas[q.Category]++
		}

		if err := h.store.InsertQuestionLog(ctx, store.QuestionLogEntry{
			QuizID:        quizID,
			AttemptNumber: attemptNumber,
			Question:      q.Text,
			CorrectAnswer: q.Answer,
			IsCorrect:     isCorrect,
			WeakArea:      q.Category,
		}); err != nil {
			h.logger.Error("log batch answer", "error", err, "quiz_id", quizID)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		details = append(details, AnswerDetail{
			Question:       q.Text,
			SelectedAnswer: pair.Answer,
			CorrectAnswer:  q.Answer,
			IsCorrect:      isCorrect,
			WeakArea:       q.Category,
		})
	}

	total := len(req.Answers)
	scorePercentage, knowledge := batchScores(correct, total)

	if err := h.store.FinalizeQuizAttempt(ctx, quizID, scorePercentage, knowledge, weakAreas); err != nil {
		h.logger.Error("finalize batch attempt", "error", err, "quiz_id", quizID)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, BatchSubmitResponse{
		Status:           "success",
		AttemptID:        quizID,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		ScorePercentage:  scorePercentage,
		AnswersDetails:   details,
		WeakAreasSummary: sortedWeakAreas(weakAreas),
	})
}

// submitQuizLogged batch-grades an answer set against each question's
// most recently logged correct answer. No attempt row is created.
// @Summary      Submit a practice round
// @Description  Grade each pair against the latest logged answer for its question text.
// @Tags         Retake
// @Accept       json
// @Produce      json
// @Param        body  body      BatchSubmitRequest  true  "Question/answer pairs"
// @Success      200   {object}  BatchSubmitResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/submit_quiz [post]
func (h *Handler) submitQuizLogged(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.requireSession(w, r); !ok {
		return
	}

	var req BatchSubmitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	correct := 0
	details := make([]AnswerDetail, 0, len(req.Answers))

	for _, pair := range req.Answers {
		if pair.Question == "" || pair.Answer == "" {
			continue
		}
		truth, err := h.store.LatestLoggedAnswer(ctx, pair.Question)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			h.logger.Error("lookup logged answer", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		isCorrect := pair.Answer == truth
		if isCorrect {
			correct++
		}
		details = append(details, AnswerDetail{
			Question:       pair.Question,
			SelectedAnswer: pair.Answer,
			CorrectAnswer:  truth,
			IsCorrect:      isCorrect,
		})
	}

	total := len(req.Answers)
	scorePercentage, _ := batchScores(correct, total)

	respondJSON(w, http.StatusOK, BatchSubmitResponse{
		Status:          "success",
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		ScorePercentage: scorePercentage,
		AnswersDetails:  details,
	})
}

// batchScores computes the percentage and the 0-1 knowledge estimate,
// guarding the empty case.
func batchScores(correct, total int) (float64, float64) {
	if total == 0 {
		return 0, 0
	}
	fraction := float64(correct) / float64(total)
	return fraction * 100, fraction
}

func sortedWeakAreas(tally map[string]int) []WeakAreaCount {
	summary := make([]WeakAreaCount, 0, len(tally))
	for area, count := range tally {
		summary = append(summary, WeakAreaCount{WeakArea: area, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].WeakArea < summary[j].WeakArea
	})
	return summary
}

package api

import "net/http"

// RegisterRoutes attaches all API endpoints to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Accounts
	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)

	// Adaptive quiz flow
	mux.HandleFunc("POST /api/start_quiz", h.startQuiz)
	mux.HandleFunc("GET /api/next_question", h.nextQuestion)
	mux.HandleFunc("POST /api/submit_answer", h.submitAnswer)
	mux.HandleFunc("GET /api/quiz_results", h.quizResults)

	// History and insights
	mux.HandleFunc("GET /api/previous_records", h.previousRecords)
	mux.HandleFunc("GET /api/weak_areas", h.weakAreas)
	mux.HandleFunc("GET /api/weak_areas_latest", h.weakAreasLatest)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)

	// Retake flow (batch grading of frequently-missed questions)
	mux.HandleFunc("GET /api/get_quiz_questions", h.getQuizQuestions)
	mux.HandleFunc("GET /api/get_quiz_questions_re", h.getQuizQuestions)
	mux.HandleFunc("POST /api/submit_quiz", h.submitQuizLogged)
	mux.HandleFunc("POST /api/submit_quiz_re", h.submitQuizBank)

	// Video recommendations
	mux.HandleFunc("POST /api/track_video", h.trackVideo)
	mux.HandleFunc("GET /api/video_history", h.videoHistory)

	// Maintenance
	mux.HandleFunc("POST /api/reset_data", h.resetData)
	mux.HandleFunc("POST /api/clear_all_data", h.clearAllData)
}

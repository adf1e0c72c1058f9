package quiz

import (
	"github.com/adaptiq/backend/internal/questionbank"
)

const (
	// InitialKnowledgeLevel is the neutral proficiency estimate a new
	// attempt starts from.
	InitialKnowledgeLevel = 0.5

	// KnowledgeStep is how much one answer moves the knowledge level,
	// clamped to [0, 1].
	KnowledgeStep = 0.1

	// MinQuestions is how many questions a session asks before it is
	// considered complete.
	MinQuestions = 10

	// IncorrectPenaltyFactor scales the score deduction for a wrong
	// answer relative to the question's difficulty.
	IncorrectPenaltyFactor = 0.5
)

// AnswerResult is the outcome of grading a single answer.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Score         float64
	Knowledge     float64
}

// Grade compares a submitted answer against the question's stored
// answer. Comparison is exact string equality; no case or whitespace
// normalization is applied.
func Grade(q questionbank.Question, answer string) bool {
	return answer == q.Answer
}

// Apply grades the answer and folds the result into the session state:
// a correct answer adds the question's difficulty to the score and
// bumps the knowledge level; a wrong one deducts half the difficulty,
// lowers the knowledge level and tallies the question's category as a
// weak area.
func Apply(s *State, q questionbank.Question, answer string) AnswerResult {
	correct := Grade(q, answer)

	if correct {
		s.Score += float64(q.Difficulty)
		s.KnowledgeLevel = min(1.0, s.KnowledgeLevel+KnowledgeStep)
	} else {
		s.Score -= float64(q.Difficulty) * IncorrectPenaltyFactor
		s.KnowledgeLevel = max(0.0, s.KnowledgeLevel-KnowledgeStep)
		if s.WeakAreas == nil {
			s.WeakAreas = map[string]int{}
		}
		s.WeakAreas[q.Category]++
	}

	return AnswerResult{
		Correct:       correct,
		CorrectAnswer: q.Answer,
		Score:         s.Score,
		Knowledge:     s.KnowledgeLevel,
	}
}

// Complete reports whether the session has asked enough questions.
func Complete(s *State) bool {
	return len(s.Asked) >= MinQuestions
}

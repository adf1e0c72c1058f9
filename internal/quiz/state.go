package quiz

// State is the per-session quiz progress. It mirrors the persisted
// attempt row plus the ordered list of asked question indices, which
// only lives for as long as the session does.
type State struct {
	QuizID         int64          `json:"quiz_id"`
	UserID         int64          `json:"user_id"`
	AttemptNumber  int            `json:"attempt_number"`
	KnowledgeLevel float64        `json:"knowledge_level"`
	Score          float64        `json:"score"`
	Asked          []int          `json:"asked"`
	WeakAreas      map[string]int `json:"weak_areas"`
}

// NewState initializes session state for a freshly created attempt.
// Every quiz starts from the neutral knowledge estimate.
func NewState(quizID, userID int64, attemptNumber int) *State {
	return &State{
		QuizID:         quizID,
		UserID:         userID,
		AttemptNumber:  attemptNumber,
		KnowledgeLevel: InitialKnowledgeLevel,
		Score:          0,
		Asked:          []int{},
		WeakAreas:      map[string]int{},
	}
}

// LastAsked returns the index of the most recently asked question.
func (s *State) LastAsked() (int, bool) {
	if len(s.Asked) == 0 {
		return 0, false
	}
	return s.Asked[len(s.Asked)-1], true
}

// HasAsked reports whether the given bank index was already used in
// this session.
func (s *State) HasAsked(index int) bool {
	for _, i := range s.Asked {
		if i == index {
			return true
		}
	}
	return false
}

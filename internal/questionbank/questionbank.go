package questionbank

import "math/rand"

// Question is one row of the quiz dataset. Difficulty is 1 (easy)
// to 3 (hard). Index is the row's position in the bank and is how
// sessions refer to questions.
type Question struct {
	Index      int
	Text       string
	Answer     string
	Category   string
	Difficulty int
}

// Bank is the in-memory question dataset. It is loaded once at startup
// and never mutated afterwards, so it is safe to share across requests.
type Bank struct {
	questions []Question
}

// MaxDistractors is the number of wrong options shown alongside the
// correct answer.
const MaxDistractors = 3

func (b *Bank) Len() int {
	return len(b.questions)
}

// Question returns the row at the given index.
func (b *Bank) Question(index int) (Question, bool) {
	if index < 0 || index >= len(b.questions) {
		return Question{}, false
	}
	return b.questions[index], true
}

// Questions returns all rows. Callers must not modify the result.
func (b *Bank) Questions() []Question {
	return b.questions
}

// ByText looks up a question by its exact text.
func (b *Bank) ByText(text string) (Question, bool) {
	for _, q := range b.questions {
		if q.Text == text {
			return q, true
		}
	}
	return Question{}, false
}

// Distractors returns up to n distinct correct-answers from the bank
// that differ from correct, sampled without replacement. When fewer
// than n distinct answers exist, all of them are returned.
func (b *Bank) Distractors(correct string, n int, rng *rand.Rand) []string {
	seen := make(map[string]struct{})
	var candidates []string
	for _, q := range b.questions {
		if q.Answer == correct {
			continue
		}
		if _, ok := seen[q.Answer]; ok {
			continue
		}
		seen[q.Answer] = struct{}{}
		candidates = append(candidates, q.Answer)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// Options builds the full shuffled option set for a question: the
// correct answer plus up to MaxDistractors wrong ones.
func (b *Bank) Options(correct string, rng *rand.Rand) []string {
	options := append([]string{correct}, b.Distractors(correct, MaxDistractors, rng)...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Package simulation runs synthetic learners through the real quiz
// engine and selector, for offline evaluation of the selection policy.
package simulation

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/adaptiq/backend/internal/questionbank"
	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/worker"
)

// RunResult is the outcome of one simulated learner completing a quiz.
type RunResult struct {
	Learner        int
	QuestionsAsked int
	FinalScore     float64
	FinalKnowledge float64
	Correct        int
}

// Summary aggregates many runs.
type Summary struct {
	Runs          int
	MeanScore     float64
	MeanKnowledge float64
	MinScore      float64
	MaxScore      float64
}

// Run simulates learners quizzes in parallel. Each learner answers
// correctly with probability equal to its current knowledge level, so
// stronger learners drift toward harder questions.
func Run(bank *questionbank.Bank, learners, workers int, seed int64) Summary {
	pool := worker.NewPool[RunResult](workers, learners)

	for i := 0; i < learners; i++ {
		learner := i
		learnerSeed := seed + int64(i)
		pool.Submit(fmt.Sprintf("learner-%d", learner), func() RunResult {
			return simulateOne(bank, learner, learnerSeed)
		})
	}
	pool.Close()

	results := make([]RunResult, 0, learners)
	for len(results) < learners {
		r := <-pool.Results()
		results = append(results, r.Output)
	}

	return summarize(results)
}

func simulateOne(bank *questionbank.Bank, learner int, seed int64) RunResult {
	rng := rand.New(rand.NewSource(seed))
	selector := quiz.NewNearestDifficulty()
	state := quiz.NewState(int64(learner), int64(learner), 1)

	correct := 0
	for !quiz.Complete(state) {
		index, found := selector.Pick(bank, state)
		if !found {
			break
		}
		state.Asked = append(state.Asked, index)

		q, _ := bank.Question(index)
		answer := q.Answer
		if rng.Float64() >= state.KnowledgeLevel {
			answer = "" // wrong on purpose
		}
		if quiz.Apply(state, q, answer).Correct {
			correct++
		}
	}

	return RunResult{
		Learner:        learner,
		QuestionsAsked: len(state.Asked),
		FinalScore:     state.Score,
		FinalKnowledge: state.KnowledgeLevel,
		Correct:        correct,
	}
}

func summarize(results []RunResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].FinalScore < results[j].FinalScore })

	var scoreSum, knowledgeSum float64
	for _, r := range results {
		scoreSum += r.FinalScore
		knowledgeSum += r.FinalKnowledge
	}

	return Summary{
		Runs:          len(results),
		MeanScore:     scoreSum / float64(len(results)),
		MeanKnowledge: knowledgeSum / float64(len(results)),
		MinScore:      results[0].FinalScore,
		MaxScore:      results[len(results)-1].FinalScore,
	}
}

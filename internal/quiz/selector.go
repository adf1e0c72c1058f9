package quiz

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/adaptiq/backend/internal/questionbank"
)

// Selector picks the next question for a session.
// Implementations may use heuristics or a trained policy; the serving
// path only depends on this interface.
type Selector interface {
	// Pick returns the bank index of the next question, or false when
	// no unused question remains.
	Pick(bank *questionbank.Bank, s *State) (int, bool)
}

// shortlistSize bounds how many difficulty-nearest candidates the
// heuristic samples from, keeping selection "roughly at the learner's
// level" without becoming deterministic.
const shortlistSize = 5

// difficultyScale converts the [0,1] knowledge level into the 1-3
// difficulty range.
const difficultyScale = 3

// NearestDifficulty selects questions whose difficulty is closest to
// the learner's current level. The first question of a session is
// uniform over the whole bank.
type NearestDifficulty struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewNearestDifficulty() *NearestDifficulty {
	return &NearestDifficulty{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (n *NearestDifficulty) Pick(bank *questionbank.Bank, s *State) (int, bool) {
	unused := unusedIndices(bank, s)
	if len(unused) == 0 {
		return 0, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(s.Asked) == 0 {
		return unused[n.rng.Intn(len(unused))], true
	}

	target := s.KnowledgeLevel * difficultyScale
	sort.SliceStable(unused, func(i, j int) bool {
		qi, _ := bank.Question(unused[i])
		qj, _ := bank.Question(unused[j])
		return math.Abs(float64(qi.Difficulty)-target) < math.Abs(float64(qj.Difficulty)-target)
	})

	shortlist := unused
	if len(shortlist) > shortlistSize {
		shortlist = shortlist[:shortlistSize]
	}
	return shortlist[n.rng.Intn(len(shortlist))], true
}

func unusedIndices(bank *questionbank.Bank, s *State) []int {
	asked := make(map[int]struct{}, len(s.Asked))
	for _, i := range s.Asked {
		asked[i] = struct{}{}
	}

	var unused []int
	for i := 0; i < bank.Len(); i++ {
		if _, ok := asked[i]; !ok {
			unused = append(unused, i)
		}
	}
	return unused
}

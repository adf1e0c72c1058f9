package worker_test

import (
	"testing"

	"github.com/adaptiq/backend/internal/worker"
)

func TestPoolRunsAllJobs(t *testing.T) {
	pool := worker.NewPool[int](4, 16)

	const jobs = 16
	for i := 0; i < jobs; i++ {
		n := i
		pool.Submit("job", func() int { return n * 2 })
	}
	pool.Close()

	sum := 0
	for i := 0; i < jobs; i++ {
		r := <-pool.Results()
		sum += r.Output
	}

	// 2 * (0 + 1 + ... + 15)
	if sum != jobs*(jobs-1) {
		t.Errorf("expected sum %d, got %d", jobs*(jobs-1), sum)
	}
}

func TestPoolCarriesJobID(t *testing.T) {
	pool := worker.NewPool[string](1, 1)
	pool.Submit("alpha", func() string { return "done" })
	pool.Close()

	r := <-pool.Results()
	if r.JobID != "alpha" || r.Output != "done" {
		t.Errorf("unexpected result %+v", r)
	}
}

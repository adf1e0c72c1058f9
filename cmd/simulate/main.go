// Command simulate evaluates the adaptive selection policy offline by
// running synthetic learners against a question bank.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/adaptiq/backend/internal/questionbank"
	"github.com/adaptiq/backend/internal/simulation"
)

func main() {
	var (
		dataset  = flag.String("dataset", "", "path to the question bank CSV")
		learners = flag.Int("learners", 100, "number of simulated learners")
		workers  = flag.Int("workers", 8, "concurrent simulations")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *dataset == "" {
		logger.Error("missing -dataset flag")
		os.Exit(1)
	}

	bank, err := questionbank.Load(*dataset)
	if err != nil {
		logger.Error("failed to load question bank", "error", err, "path", *dataset)
		os.Exit(1)
	}

	summary := simulation.Run(bank, *learners, *workers, *seed)

	logger.Info("simulation complete",
		"runs", summary.Runs,
		"mean_score", summary.MeanScore,
		"mean_knowledge", summary.MeanKnowledge,
		"min_score", summary.MinScore,
		"max_score", summary.MaxScore,
	)
}

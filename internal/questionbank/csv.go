package questionbank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Dataset column headers. The file is the preprocessed quiz dataset;
// Difficulty may be numeric (1-3) or one of Easy/Medium/Hard.
const (
	colQuestion   = "Question"
	colAnswer     = "Correct Answer"
	colCategory   = "Category"
	colDifficulty = "Difficulty"
)

// Load reads the question dataset from a CSV file.
func Load(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	bank, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return bank, nil
}

// Parse reads CSV question rows from r. The first record must be a
// header containing at least the Question and Correct Answer columns.
func Parse(r io.Reader) (*Bank, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colQuestion, colAnswer} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	bank := &Bank{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		q := Question{
			Index:      len(bank.questions),
			Text:       field(record, cols, colQuestion),
			Answer:     field(record, cols, colAnswer),
			Category:   field(record, cols, colCategory),
			Difficulty: parseDifficulty(field(record, cols, colDifficulty)),
		}
		if q.Text == "" {
			continue
		}
		if q.Category == "" {
			q.Category = "Unknown"
		}
		bank.questions = append(bank.questions, q)
	}

	return bank, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseDifficulty maps the dataset's difficulty labels to 1-3.
// Unknown values fall back to 1, matching the preprocessing step.
func parseDifficulty(v string) int {
	switch strings.ToLower(v) {
	case "easy":
		return 1
	case "medium":
		return 2
	case "hard":
		return 3
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 3 {
		return n
	}
	return 1
}

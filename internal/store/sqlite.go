package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    quiz_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    attempt_number INTEGER NOT NULL,
    score REAL NOT NULL,
    knowledge_level REAL NOT NULL,
    weak_areas TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE TABLE IF NOT EXISTS question_log (
    log_id INTEGER PRIMARY KEY AUTOINCREMENT,
    quiz_id INTEGER NOT NULL,
    attempt_number INTEGER NOT NULL,
    question TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    is_correct INTEGER NOT NULL,
    weak_area TEXT NOT NULL,
    FOREIGN KEY (quiz_id) REFERENCES quiz_attempts(quiz_id)
);

CREATE TABLE IF NOT EXISTS video_resources (
    video_id INTEGER PRIMARY KEY AUTOINCREMENT,
    weak_area TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS video_tracks (
    track_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    quiz_id INTEGER NOT NULL,
    video_id INTEGER NOT NULL,
    watched INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, video_id, quiz_id),
    FOREIGN KEY (user_id) REFERENCES users(user_id),
    FOREIGN KEY (video_id) REFERENCES video_resources(video_id)
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ============================================================================
// Quiz attempts
// ============================================================================

func (s *SQLiteStore) CreateQuizAttempt(ctx context.Context, userID int64, attemptNumber int, knowledgeLevel, score float64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO quiz_attempts (user_id, attempt_number, score, knowledge_level, weak_areas) VALUES (?, ?, ?, ?, ?)",
		userID, attemptNumber, score, knowledgeLevel, "{}",
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// MaxAttemptNumber returns the highest attempt number the user has
// recorded, 0 when they have none.
func (s *SQLiteStore) MaxAttemptNumber(ctx context.Context, userID int64) (int, error) {
	var n sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(attempt_number) FROM quiz_attempts WHERE user_id = ?",
		userID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}

// UpdateQuizAttemptProgress persists the running score and knowledge
// level after each graded answer.
func (s *SQLiteStore) UpdateQuizAttemptProgress(ctx context.Context, quizID int64, score, knowledgeLevel float64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE quiz_attempts SET score = ?, knowledge_level = ? WHERE quiz_id = ?",
		score, knowledgeLevel, quizID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// FinalizeQuizAttempt writes the final score, knowledge level and
// serialized weak-area tally.
func (s *SQLiteStore) FinalizeQuizAttempt(ctx context.Context, quizID int64, score, knowledgeLevel float64, weakAreas map[string]int) error {
	payload, err := json.Marshal(weakAreas)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE quiz_attempts SET score = ?, knowledge_level = ?, weak_areas = ? WHERE quiz_id = ?",
		score, knowledgeLevel, string(payload), quizID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (s *SQLiteStore) ListAttemptsByUser(ctx context.Context, userID int64) ([]*QuizAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT quiz_id, user_id, attempt_number, score, knowledge_level, weak_areas FROM quiz_attempts WHERE user_id = ? ORDER BY quiz_id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*QuizAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// LatestAttemptByUser returns the attempt with the highest attempt
// number for the user.
func (s *SQLiteStore) LatestAttemptByUser(ctx context.Context, userID int64) (*QuizAttempt, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT quiz_id, user_id, attempt_number, score, knowledge_level, weak_areas FROM quiz_attempts WHERE user_id = ? ORDER BY attempt_number DESC LIMIT 1",
		userID,
	)
	attempt, err := scanAttempt(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*QuizAttempt, error) {
	var a QuizAttempt
	var weakAreas string
	if err := row.Scan(&a.ID, &a.UserID, &a.AttemptNumber, &a.Score, &a.KnowledgeLevel, &weakAreas); err != nil {
		return nil, err
	}
	a.WeakAreas = map[string]int{}
	if weakAreas != "" {
		if err := json.Unmarshal([]byte(weakAreas), &a.WeakAreas); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// ============================================================================
// Question log
// ============================================================================

func (s *SQLiteStore) InsertQuestionLog(ctx context.Context, entry QuestionLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO question_log (quiz_id, attempt_number, question, correct_answer, is_correct, weak_area) VALUES (?, ?, ?, ?, ?, ?)",
		entry.QuizID, entry.AttemptNumber, entry.Question, entry.CorrectAnswer, entry.IsCorrect, entry.WeakArea,
	)
	return err
}

func (s *SQLiteStore) ListQuestionLogByQuiz(ctx context.Context, quizID int64) ([]QuestionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT log_id, quiz_id, attempt_number, question, correct_answer, is_correct, weak_area FROM question_log WHERE quiz_id = ? ORDER BY log_id",
		quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []QuestionLogEntry
	for rows.Next() {
		var e QuestionLogEntry
		if err := rows.Scan(&e.ID, &e.QuizID, &e.AttemptNumber, &e.Question, &e.CorrectAnswer, &e.IsCorrect, &e.WeakArea); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestLoggedAnswer returns the most recently logged correct answer
// for a question text, used as ground truth when grading retakes of
// previously answered questions.
func (s *SQLiteStore) LatestLoggedAnswer(ctx context.Context, question string) (string, error) {
	var answer string
	err := s.db.QueryRowContext(ctx,
		"SELECT correct_answer FROM question_log WHERE question = ? ORDER BY log_id DESC LIMIT 1",
		question,
	).Scan(&answer)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

// FrequentlyMissed returns the questions missed most often, counted at
// each question's latest attempt number.
func (s *SQLiteStore) FrequentlyMissed(ctx context.Context, limit int) ([]MissedQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, correct_answer, weak_area, attempt_number, COUNT(*) AS miss_count
		FROM question_log
		WHERE is_correct = 0
		GROUP BY question, correct_answer, weak_area, attempt_number
		HAVING attempt_number = (
			SELECT MAX(q2.attempt_number)
			FROM question_log q2
			WHERE q2.question = question_log.question
			  AND q2.correct_answer = question_log.correct_answer
		)
		ORDER BY miss_count DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missed []MissedQuestion
	for rows.Next() {
		var m MissedQuestion
		if err := rows.Scan(&m.Question, &m.CorrectAnswer, &m.WeakArea, &m.AttemptNumber, &m.MissCount); err != nil {
			return nil, err
		}
		missed = append(missed, m)
	}
	return missed, rows.Err()
}

// ============================================================================
// Leaderboard
// ============================================================================

// TopScores returns each user's best attempt score, highest first.
func (s *SQLiteStore) TopScores(ctx context.Context) ([]LeaderboardRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, MAX(qa.score) AS best_score
		FROM users u
		JOIN quiz_attempts qa ON qa.user_id = u.user_id
		GROUP BY u.user_id, u.username
		ORDER BY best_score DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Score); err != nil {
			return nil, err
		}
		board = append(board, r)
	}
	return board, rows.Err()
}

// ============================================================================
// Reset
// ============================================================================

// ResetUserData deletes the requesting user's tracks, log rows and
// attempts. Other users' data is untouched.
func (s *SQLiteStore) ResetUserData(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM video_tracks WHERE user_id = ?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM question_log WHERE quiz_id IN (SELECT quiz_id FROM quiz_attempts WHERE user_id = ?)",
		userID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM quiz_attempts WHERE user_id = ?", userID); err != nil {
		return err
	}

	return tx.Commit()
}

// ClearAll wipes every table. Administrative use only.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"video_tracks", "question_log", "quiz_attempts", "video_resources", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

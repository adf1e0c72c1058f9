package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adaptiq/backend/internal/api"
	"github.com/adaptiq/backend/internal/questionbank"
	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/session"
	"github.com/adaptiq/backend/internal/store"
)

const testAdminToken = "letmein"

const testCSV = `Question,Correct Answer,Category,Difficulty
Q1,A1,Basics,Easy
Q2,A2,Basics,Easy
Q3,A3,Types,Medium
Q4,A4,Types,Medium
Q5,A5,Concurrency,Hard
Q6,A6,Concurrency,Hard
Q7,A7,Basics,Easy
Q8,A8,Types,Medium
Q9,A9,Concurrency,Hard
Q10,A10,Basics,Easy
Q11,A11,Types,Medium
Q12,A12,Concurrency,Hard
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bank, err := questionbank.Parse(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("parse bank: %v", err)
	}

	sessions := session.NewMemoryStore(time.Hour)
	t.Cleanup(sessions.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewHandler(db, bank, sessions, quiz.NewNearestDifficulty(), logger, testAdminToken)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type client struct {
	t      *testing.T
	http   *http.Client
	server *httptest.Server
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return jar
}

func newClient(t *testing.T, server *httptest.Server) *client {
	t.Helper()
	jar := newCookieJar(t)
	return &client{
		t:      t,
		http:   &http.Client{Jar: jar},
		server: server,
	}
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]json.RawMessage) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var fields map[string]json.RawMessage
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fields); err != nil {
			c.t.Fatalf("%s %s: invalid json %q", method, path, data)
		}
	}
	return resp, fields
}

func (c *client) register(username, password string) (*http.Response, map[string]json.RawMessage) {
	return c.do(http.MethodPost, "/api/register", map[string]string{
		"username": username, "password": password,
	})
}

func (c *client) login(username, password string) (*http.Response, map[string]json.RawMessage) {
	return c.do(http.MethodPost, "/api/login", map[string]string{
		"username": username, "password": password,
	})
}

func str(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		t.Fatalf("field %q: %v (raw %s)", key, err, fields[key])
	}
	return s
}

func TestRegisterDuplicateUsername(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)

	resp, _ := c.register("gopher", "secret")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}

	resp, _ = c.register("gopher", "other")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second register: expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginDoesNotDiscloseField(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.register("gopher", "secret")

	wrongPassword, wp := c.login("gopher", "nope")
	noSuchUser, nu := c.login("nobody", "secret")

	if wrongPassword.StatusCode != http.StatusUnauthorized || noSuchUser.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.StatusCode, noSuchUser.StatusCode)
	}
	if str(t, wp, "error") != str(t, nu, "error") {
		t.Error("error message must not disclose which field was wrong")
	}
}

func TestQuizFlow(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.register("gopher", "secret")

	resp, _ := c.login("gopher", "secret")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}

	resp, fields := c.do(http.MethodPost, "/api/start_quiz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start_quiz: status %d body %v", resp.StatusCode, fields)
	}

	asked := map[string]bool{}
	for i := 0; i < quiz.MinQuestions; i++ {
		resp, fields = c.do(http.MethodGet, "/api/next_question", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("next_question %d: status %d", i, resp.StatusCode)
		}
		if _, done := fields["results"]; done {
			t.Fatalf("quiz completed after only %d questions", i)
		}

		question := str(t, fields, "question")
		if asked[question] {
			t.Fatalf("question %q repeated", question)
		}
		asked[question] = true

		var options []string
		if err := json.Unmarshal(fields["options"], &options); err != nil {
			t.Fatalf("options: %v", err)
		}
		if len(options) == 0 || len(options) > 4 {
			t.Fatalf("unexpected option count %d", len(options))
		}

		resp, fields = c.do(http.MethodPost, "/api/submit_answer", map[string]string{
			"answer": options[0],
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("submit_answer %d: status %d body %v", i, resp.StatusCode, fields)
		}
	}

	// The 11th call must complete the quiz, not serve a question.
	resp, fields = c.do(http.MethodGet, "/api/next_question", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("completion call: status %d", resp.StatusCode)
	}
	if _, done := fields["results"]; !done {
		t.Fatalf("expected completion results, got %v", fields)
	}

	resp, fields = c.do(http.MethodGet, "/api/previous_records", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("previous_records: status %d", resp.StatusCode)
	}
	var history []map[string]any
	if err := json.Unmarshal(fields["history"], &history); err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 attempt in history, got %d", len(history))
	}
	if history[0]["total_questions"].(float64) != quiz.MinQuestions {
		t.Errorf("expected %d logged questions, got %v", quiz.MinQuestions, history[0]["total_questions"])
	}
}

func TestPreviousRecordsBreakdown(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.register("gopher", "secret")
	c.login("gopher", "secret")
	c.do(http.MethodPost, "/api/start_quiz", nil)

	// In the fixture every question "Qn" has answer "An", so the right
	// answer is derivable from the served question text.
	resp, fields := c.do(http.MethodGet, "/api/next_question", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("next_question: status %d", resp.StatusCode)
	}
	rightQuestion := str(t, fields, "question")
	c.do(http.MethodPost, "/api/submit_answer", map[string]string{
		"answer": "A" + strings.TrimPrefix(rightQuestion, "Q"),
	})

	resp, fields = c.do(http.MethodGet, "/api/next_question", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("next_question: status %d", resp.StatusCode)
	}
	missedQuestion := str(t, fields, "question")
	c.do(http.MethodPost, "/api/submit_answer", map[string]string{
		"answer": "not even close",
	})

	_, fields = c.do(http.MethodGet, "/api/previous_records", nil)
	var history []struct {
		CorrectQuestions   []string `json:"correct_questions"`
		IncorrectQuestions []struct {
			Question      string `json:"question"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"incorrect_questions"`
	}
	if err := json.Unmarshal(fields["history"], &history); err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(history))
	}

	record := history[0]
	if len(record.CorrectQuestions) != 1 || record.CorrectQuestions[0] != rightQuestion {
		t.Errorf("correct questions %v, want [%s]", record.CorrectQuestions, rightQuestion)
	}
	if len(record.IncorrectQuestions) != 1 {
		t.Fatalf("incorrect questions %v, want one entry", record.IncorrectQuestions)
	}
	missed := record.IncorrectQuestions[0]
	if missed.Question != missedQuestion {
		t.Errorf("missed question %q, want %q", missed.Question, missedQuestion)
	}
	if missed.CorrectAnswer != "A"+strings.TrimPrefix(missedQuestion, "Q") {
		t.Errorf("missed correct answer %q does not match question %q", missed.CorrectAnswer, missedQuestion)
	}
}

func TestNextQuestionWithoutQuiz(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.register("gopher", "secret")
	c.login("gopher", "secret")

	resp, _ := c.do(http.MethodGet, "/api/next_question", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without an active quiz, got %d", resp.StatusCode)
	}
}

func TestEndpointsRequireLogin(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/start_quiz"},
		{http.MethodGet, "/api/next_question"},
		{http.MethodGet, "/api/previous_records"},
		{http.MethodGet, "/api/weak_areas"},
		{http.MethodGet, "/api/video_history"},
		{http.MethodPost, "/api/reset_data"},
	}
	for _, p := range paths {
		resp, _ := c.do(p.method, p.path, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestBatchSubmitEmptyAnswers(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.register("gopher", "secret")
	c.login("gopher", "secret")

	resp, fields := c.do(http.MethodPost, "/api/submit_quiz_re", map[string]any{
		"answers": []any{},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit_quiz_re: status %d body %v", resp.StatusCode, fields)
	}

	var pct float64
	if err := json.Unmarshal(fields["score_percentage"], &pct); err != nil {
		t.Fatalf("score_percentage: %v", err)
	}
	if pct != 0 {
		t.Errorf("expected score_percentage 0, got %v", pct)
	}
}

func TestClearAllDataRequiresToken(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)

	resp, _ := c.do(http.MethodPost, "/api/clear_all_data", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 without admin token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/clear_all_data", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	withToken, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("clear_all_data: %v", err)
	}
	withToken.Body.Close()
	if withToken.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with admin token, got %d", withToken.StatusCode)
	}
}

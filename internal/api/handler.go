package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/adaptiq/backend/internal/questionbank"
	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/session"
	"github.com/adaptiq/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store    *store.SQLiteStore
	bank     *questionbank.Bank
	sessions session.Store
	selector quiz.Selector
	logger   *slog.Logger

	adminToken string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s *store.SQLiteStore, bank *questionbank.Bank, sessions session.Store, selector quiz.Selector, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{
		store:      s,
		bank:       bank,
		sessions:   sessions,
		selector:   selector,
		logger:     logger,
		adminToken: adminToken,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// shuffledOptions builds the option set for a correct answer under the
// handler's rng lock.
func (h *Handler) shuffledOptions(correct string) []string {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.bank.Options(correct, h.rng)
}

// Validator is implemented by request types that check their own
// required fields.
type Validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeAndValidate decodes the request body into v and runs its
// validation. Returns false if a response was already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v Validator) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the
// appropriate HTTP response. Returns true if an error was handled
// (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, entity+" already exists")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

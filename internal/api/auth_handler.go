package api

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/adaptiq/backend/internal/session"
	"github.com/adaptiq/backend/internal/store"
)

const sessionCookie = "quiz_session"

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Username string `json:"username" example:"learner42"`
	Password string `json:"password" example:"hunter2"`
}

func (r *RegisterRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RegisterResponse struct {
	Message string `json:"message" example:"User registered!"`
	UserID  int64  `json:"user_id" example:"1"`
}

type LoginRequest struct {
	Username string `json:"username" example:"learner42"`
	Password string `json:"password" example:"hunter2"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type LoginResponse struct {
	Message  string `json:"message" example:"Login successful!"`
	UserID   int64  `json:"user_id" example:"1"`
	Username string `json:"username" example:"learner42"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// register creates a new user account.
// @Summary      Register
// @Description  Create a user account. Usernames are unique.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Credentials"
// @Success      201   {object}  RegisterResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "username taken"
// @Failure      500   {object}  map[string]string
// @Router       /api/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	userID, err := h.store.CreateUser(ctx, req.Username, string(hash))
	if h.handleStoreError(w, err, "username") {
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User registered!",
		UserID:  userID,
	})
}

// login authenticates a user and establishes a session.
// @Summary      Log in
// @Description  Verify credentials and set the session cookie.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// The response never says which of the two fields was wrong.
	user, err := h.store.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.logger.Error("load user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.sessions.Create(ctx, session.Session{
		Identity: session.Identity{UserID: user.ID, Username: user.Username},
	})
	if err != nil {
		h.logger.Error("create session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful!",
		UserID:   user.ID,
		Username: user.Username,
	})
}

// logout clears the session.
// @Summary      Log out
// @Description  Invalidate the server-side session and clear the cookie.
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// requireSession resolves the caller's session from the cookie.
// Returns false if a response was already written.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (string, session.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "login required")
		return "", session.Session{}, false
	}

	sess, err := h.sessions.Get(r.Context(), cookie.Value)
	if errors.Is(err, session.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "login required")
		return "", session.Session{}, false
	}
	if err != nil {
		h.logger.Error("load session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return "", session.Session{}, false
	}

	return cookie.Value, sess, true
}

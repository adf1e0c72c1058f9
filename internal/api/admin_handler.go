package api

import "net/http"

const adminTokenHeader = "X-Admin-Token"

// resetData wipes the requesting user's attempts, answer log and
// video tracks. Other users are untouched.
// @Summary      Reset own data
// @Tags         Maintenance
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/reset_data [post]
func (h *Handler) resetData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.store.ResetUserData(ctx, sess.Identity.UserID); err != nil {
		h.logger.Error("reset user data", "error", err, "user_id", sess.Identity.UserID)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("user data reset", "user_id", sess.Identity.UserID, "session", token)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Your data has been reset."})
}

// clearAllData wipes every table. Requires the admin token header.
// @Summary      Clear all data
// @Tags         Maintenance
// @Produce      json
// @Param        X-Admin-Token  header    string  true  "Admin token"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/clear_all_data [post]
func (h *Handler) clearAllData(w http.ResponseWriter, r *http.Request) {
	if h.adminToken == "" || r.Header.Get(adminTokenHeader) != h.adminToken {
		respondError(w, http.StatusForbidden, "admin token required")
		return
	}

	if err := h.store.ClearAll(r.Context()); err != nil {
		h.logger.Error("clear all data", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Warn("all data cleared")
	respondJSON(w, http.StatusOK, map[string]string{"message": "All data cleared."})
}

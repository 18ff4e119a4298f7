package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bengeek06/pm-users-api/internal/api/dto"
	"github.com/bengeek06/pm-users-api/internal/auth"
	"github.com/bengeek06/pm-users-api/internal/users"
)

// VerifyHandler checks an email/password pair on behalf of the
// authentication service. The route is gated by the internal-token
// middleware; the stored hash never leaves this process.
type VerifyHandler struct {
	store  *users.Store
	logger *slog.Logger
}

func NewVerifyHandler(store *users.Store, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{store: store, logger: logger}
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

// VerifyPassword handles POST /users/verify_password
func (h *VerifyHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Missing email or password"})
		return
	}

	user, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Warn("password verification for unknown email", "email", req.Email)
		writeJSON(w, http.StatusNotFound, verifyResponse{Valid: false})
		return
	}

	if !auth.CheckPassword(req.Password, user.HashedPassword) {
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Valid:     true,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
	})
}

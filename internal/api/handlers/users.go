package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bengeek06/pm-users-api/internal/api/dto"
	"github.com/bengeek06/pm-users-api/internal/auth"
	"github.com/bengeek06/pm-users-api/internal/users"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	store     *users.Store
	validator *users.Validator
	logger    *slog.Logger
}

func NewUserHandler(store *users.Store, validator *users.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, validator: validator, logger: logger}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list users"})
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			h.logger.Error("failed to hash password", "error", err)
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to process password"})
			return
		}
		in.HashedPassword = hash
	}

	fieldErrs, err := h.validator.Validate(r.Context(), in, "", users.ModeCreate)
	if err != nil {
		h.logger.Error("validation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: fieldErrs})
		return
	}

	user, err := h.store.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"email": "email must be unique"},
			})
			return
		}
		h.logger.Error("failed to create user", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Replace handles PUT /users/{id}
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, users.ModeReplace)
}

// Patch handles PATCH /users/{id}
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, users.ModePartial)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, mode users.Mode) {
	user, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			h.logger.Error("failed to hash password", "error", err)
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to process password"})
			return
		}
		in.HashedPassword = hash
	}

	fieldErrs, err := h.validator.Validate(r.Context(), in, user.ID, mode)
	if err != nil {
		h.logger.Error("validation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: fieldErrs})
		return
	}

	if err := h.store.Update(r.Context(), user, in); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"email": "email must be unique"},
			})
			return
		}
		h.logger.Error("failed to update user", "error", err, "user_id", user.ID)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update user"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	if err := h.store.Delete(r.Context(), user); err != nil {
		h.logger.Error("failed to delete user", "error", err, "user_id", user.ID)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete user"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/store"
)

// UsersHandler handles user profile requests.
type UsersHandler struct {
	profiles store.ProfileStore
	log      zerolog.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(profiles store.ProfileStore, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{profiles: profiles, log: log}
}

type createUserRequest struct {
	GoogleID  string `json:"googleId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Picture   string `json:"picture"`
}

// CreateUser handles POST /api/users.
// Creating an already registered user returns the existing profile,
// so sign-in can call this on every login.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GoogleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}
	if req.Email == "" {
		middleware.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	profile, err := h.profiles.GetOrCreateProfile(ctx, &domain.Profile{
		GoogleID:  req.GoogleID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Picture:   req.Picture,
	})
	if err != nil {
		h.log.Error().Err(err).Str("google_id", req.GoogleID).Msg("Failed to create user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, profile)
}

// GetUser handles GET /api/users/{googleId}
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request, googleID string) {
	ctx := r.Context()

	profile, err := h.profiles.FindProfileByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to get user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, profile)
}

// UpdateUser handles PUT /api/users/{googleId}.
// Only the fields present in the request body are changed.
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request, googleID string) {
	ctx := r.Context()

	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if upd.Email != nil && *upd.Email == "" {
		middleware.WriteError(w, http.StatusBadRequest, "email cannot be empty")
		return
	}

	profile, err := h.profiles.UpdateProfile(ctx, googleID, upd)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to update user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, profile)
}

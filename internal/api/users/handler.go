package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/auth"
	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/chatnest/chatnest-server/internal/storage"
)

// UserHandler holds the dependencies for the auth/user endpoints.
type UserHandler struct {
	Store  storage.UserStore
	Auth   *auth.Authenticator
	Logger zerolog.Logger
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error().Err(err).Msg("response write failed")
	}
}

func (h *UserHandler) fail(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"status": false, "message": message})
}

// Register creates a new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmpassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		h.fail(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	err = h.Store.Create(r.Context(), user)
	switch {
	case errors.Is(err, storage.ErrDuplicateUsername):
		h.fail(w, http.StatusConflict, "Username already used")
	case errors.Is(err, storage.ErrDuplicateEmail):
		h.fail(w, http.StatusConflict, "Email already used")
	case err != nil:
		h.Logger.Error().Err(err).Msg("user create failed")
		h.fail(w, http.StatusInternalServerError, "failed to create user")
	default:
		h.writeJSON(w, http.StatusCreated, map[string]any{"status": true, "user": user})
	}
}

// Login checks credentials and issues a JWT.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Store.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, storage.ErrUserNotFound) {
		h.fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.fail(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := h.Auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": true, "user": user, "token": token})
}

// SetAvatar stores the chosen avatar image for a user.
func (h *UserHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		h.fail(w, http.StatusBadRequest, "image is required")
		return
	}

	user, err := h.Store.SetAvatar(r.Context(), id, req.Image)
	if errors.Is(err, storage.ErrUserNotFound) {
		h.fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to set avatar")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"isSet": user.IsAvatarSet,
		"image": user.AvatarImage,
	})
}

// AllUsers lists every user except the requester, for the contact panel.
func (h *UserHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	users, err := h.Store.ListOthers(r.Context(), id)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	h.writeJSON(w, http.StatusOK, users)
}

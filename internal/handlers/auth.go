package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fmoreau/taskdeck/internal/auth"
	"github.com/fmoreau/taskdeck/internal/metrics"
	"github.com/fmoreau/taskdeck/internal/middleware"
	"github.com/fmoreau/taskdeck/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Secret   []byte
	TokenTTL time.Duration
	// SecureCookie marks the session cookie Secure (set in prod).
	SecureCookie bool
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	// Exact-match existence check; the unique index backs up the race window.
	if _, err := h.Users.GetByEmail(r.Context(), input.Email); err == nil {
		JSONError(w, "User with this email already exists", http.StatusBadRequest)
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		slog.Error("register: lookup email", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("register: hash password", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Name, input.Email, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			JSONError(w, "User with this email already exists", http.StatusBadRequest)
			return
		}
		slog.Error("register: create user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	token, err := auth.IssueToken(user.ID, h.Secret, h.TokenTTL)
	if err != nil {
		slog.Error("register: issue token", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.UsersRegisteredTotal.Inc()
	http.SetCookie(w, auth.SessionCookie(token, h.TokenTTL, h.SecureCookie))
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

// ==========================
// Login
// ==========================
//
// Unknown email and wrong password return byte-identical responses so the API
// does not leak which accounts exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		slog.Error("login: lookup email", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		JSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := auth.IssueToken(user.ID, h.Secret, h.TokenTTL)
	if err != nil {
		slog.Error("login: issue token", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.TokenTTL, h.SecureCookie))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// ==========================
// Logout
// ==========================
//
// Stateless: only the cookie is cleared. A replayed token stays valid until
// its natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.SecureCookie))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// ==========================
// Me (current user from session)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "User not found", http.StatusNotFound)
			return
		}
		slog.Error("me: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

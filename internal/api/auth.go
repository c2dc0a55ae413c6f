package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"servis32/internal/model"
	"servis32/internal/session"
	"servis32/internal/store"
)

// AuthHandler handles login and user administration endpoints.
type AuthHandler struct {
	DB       *sql.DB
	Sessions *session.Registry
}

// loginRequest accepts both field spellings the shop's clients send.
type loginRequest struct {
	Username string `json:"username"`
	User     string `json:"user"`
	Password string `json:"password"`
	Pass     string `json:"pass"`
}

func (r *loginRequest) username() string {
	if r.Username != "" {
		return r.Username
	}
	return r.User
}

func (r *loginRequest) password() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Pass
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type addUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username, password := req.username(), req.password()
	if username == "" || password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	identity, err := store.ValidateCredentials(r.Context(), h.DB, username, password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if identity == nil {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Sessions.Issue(*identity)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	slog.Info("user logged in", "user", identity.Username, "role", identity.Role)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Role: identity.Role})
}

// AddUser handles POST /api/addUser (admin only).
func (h *AuthHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	_, err = store.CreateUser(r.Context(), h.DB, req.Username, string(hash), model.RoleUser)
	if errors.Is(err, store.ErrUsernameTaken) {
		jsonError(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	admin, _ := IdentityFrom(r.Context())
	slog.Info("user created", "user", req.Username, "by", admin.Username)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "user created"})
}

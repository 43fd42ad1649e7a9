package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ingenium21/todo-service/internal/auth"
	"github.com/ingenium21/todo-service/internal/http/respond"
	"github.com/ingenium21/todo-service/internal/models"
	"github.com/ingenium21/todo-service/internal/models/dto"
	"github.com/ingenium21/todo-service/internal/storage"
)

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           models.RoleUser,
		IsActive:       true,
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		HashedPassword: hashed,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "username already exists")
		default:
			log.Printf("create user error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user, ok := authenticate(r.Context(), h.store, strings.TrimSpace(req.Username), req.Password)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("sign token error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

// authenticate verifies a username/password pair against the store. An
// unknown username and a wrong password produce the same false result, so
// a caller cannot enumerate accounts.
func authenticate(ctx context.Context, store storage.UserStore, username, password string) (models.User, bool) {
	user, err := store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("find user error: %v", err)
		}
		return models.User{}, false
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return models.User{}, false
	}
	return user, true
}

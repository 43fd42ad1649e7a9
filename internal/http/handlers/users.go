package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ingenium21/todo-service/internal/auth"
	"github.com/ingenium21/todo-service/internal/http/respond"
	"github.com/ingenium21/todo-service/internal/middleware"
	"github.com/ingenium21/todo-service/internal/models/dto"
	"github.com/ingenium21/todo-service/internal/storage"
)

// UserHandler serves the acting user's own account: profile read, password
// change, and phone update. It never addresses any other user's row.
type UserHandler struct {
	store storage.UserStore
	authn *middleware.Authenticator
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, authn *middleware.Authenticator) *UserHandler {
	return &UserHandler{store: store, authn: authn}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /user/{$}", h.authn.Require(http.HandlerFunc(h.handleGetSelf)))
	mux.Handle("PUT /user/password", h.authn.Require(http.HandlerFunc(h.handleChangePassword)))
	mux.Handle("PUT /user/phonenumber/{phone_number}", h.authn.Require(http.HandlerFunc(h.handleUpdatePhone)))
}

func (h *UserHandler) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	user, err := h.store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("get user error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user, err := h.store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("get user error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if !auth.CheckPassword(req.Password, user.HashedPassword) {
		respond.Error(w, http.StatusForbidden, "current password is incorrect")
		return
	}
	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), identity.UserID, hashed); err != nil {
		log.Printf("update password error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	// No format validation on the phone number; the value is display-only.
	phone := r.PathValue("phone_number")
	if err := h.store.UpdatePhone(r.Context(), identity.UserID, phone); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("update phone error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update phone number")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

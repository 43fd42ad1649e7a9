package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ingenium21/todo-service/internal/http/respond"
	"github.com/ingenium21/todo-service/internal/middleware"
	"github.com/ingenium21/todo-service/internal/storage"
)

// AdminHandler exposes the unscoped todo views reserved for the admin role.
type AdminHandler struct {
	store storage.TodoStore
	authn *middleware.Authenticator
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(store storage.TodoStore, authn *middleware.Authenticator) *AdminHandler {
	return &AdminHandler{store: store, authn: authn}
}

// Register attaches admin routes to the mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /admin/todos", h.authn.Require(http.HandlerFunc(h.handleListAll)))
	mux.Handle("DELETE /admin/todo/{id}", h.authn.Require(http.HandlerFunc(h.handleDeleteAny)))
}

func (h *AdminHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	todos, err := h.store.ListAllTodos(r.Context())
	if err != nil {
		log.Printf("admin list todos error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	respond.JSON(w, http.StatusOK, todos)
}

func (h *AdminHandler) handleDeleteAny(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := todoID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	if err := h.store.DeleteAnyTodo(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		log.Printf("admin delete todo error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return false
	}
	if !identity.IsAdmin() {
		respond.Error(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

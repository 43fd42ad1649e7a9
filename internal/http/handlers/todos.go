package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/ingenium21/todo-service/internal/http/respond"
	"github.com/ingenium21/todo-service/internal/middleware"
	"github.com/ingenium21/todo-service/internal/models"
	"github.com/ingenium21/todo-service/internal/models/dto"
	"github.com/ingenium21/todo-service/internal/storage"
)

// TodoHandler exposes the ownership-scoped todo CRUD endpoints. Every route
// runs behind the authenticator; the acting identity comes from the request
// context and decides which rows are visible.
type TodoHandler struct {
	store storage.TodoStore
	authn *middleware.Authenticator
}

// NewTodoHandler constructs the handler.
func NewTodoHandler(store storage.TodoStore, authn *middleware.Authenticator) *TodoHandler {
	return &TodoHandler{store: store, authn: authn}
}

// Register attaches todo routes to the mux.
func (h *TodoHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /todos/{$}", h.authn.Require(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /todos/todo/{id}", h.authn.Require(http.HandlerFunc(h.handleGet)))
	mux.Handle("POST /todos/todo", h.authn.Require(http.HandlerFunc(h.handleCreate)))
	mux.Handle("PUT /todos/todo/{id}", h.authn.Require(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /todos/todo/{id}", h.authn.Require(http.HandlerFunc(h.handleDelete)))
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	todos, err := h.store.ListTodos(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("list todos error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	respond.JSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	id, err := todoID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	todo, err := h.store.GetTodo(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		log.Printf("get todo error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch todo")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// Owner comes from the identity; a client-supplied owner never reaches here.
	todo := models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     identity.UserID,
	}
	created, err := h.store.CreateTodo(r.Context(), todo)
	if err != nil {
		log.Printf("create todo error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create todo")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	id, err := todoID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	todo := models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	}
	if err := h.store.UpdateTodo(r.Context(), identity.UserID, id, todo); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		log.Printf("update todo error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	id, err := todoID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	if err := h.store.DeleteTodo(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		log.Printf("delete todo error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func todoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

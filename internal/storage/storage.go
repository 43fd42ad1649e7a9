package storage

import (
	"context"
	"errors"

	"github.com/ingenium21/todo-service/internal/models"
)

// ErrNotFound indicates a record does not exist for the acting identity.
// A record owned by someone else is reported the same way.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures account persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdatePhone(ctx context.Context, id int64, phoneNumber string) error
}

// TodoStore captures todo persistence operations. Every method except the
// admin pair is scoped to the owning user: a todo that exists under another
// owner behaves exactly like one that does not exist.
type TodoStore interface {
	ListTodos(ctx context.Context, ownerID int64) ([]models.Todo, error)
	GetTodo(ctx context.Context, ownerID, id int64) (models.Todo, error)
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	UpdateTodo(ctx context.Context, ownerID, id int64, todo models.Todo) error
	DeleteTodo(ctx context.Context, ownerID, id int64) error

	// Admin reach, not ownership-scoped.
	ListAllTodos(ctx context.Context) ([]models.Todo, error)
	DeleteAnyTodo(ctx context.Context, id int64) error
}

// Store is the full persistence surface the server wires up.
type Store interface {
	UserStore
	TodoStore
}

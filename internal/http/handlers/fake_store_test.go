package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ingenium21/todo-service/internal/auth"
	"github.com/ingenium21/todo-service/internal/middleware"
	"github.com/ingenium21/todo-service/internal/models"
	"github.com/ingenium21/todo-service/internal/storage"
)

// fakeStore is an in-memory storage.Store with the same ownership semantics
// as the Postgres implementation.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]models.User
	todos      map[int64]models.Todo
	nextUserID int64
	nextTodoID int64
}

var _ storage.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[int64]models.User{},
		todos:      map[int64]models.Todo{},
		nextUserID: 1,
		nextTodoID: 1,
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = f.nextUserID
	user.CreatedAt = time.Now()
	f.nextUserID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeStore) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.HashedPassword = hashedPassword
	f.users[id] = user
	return nil
}

func (f *fakeStore) UpdatePhone(_ context.Context, id int64, phoneNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.PhoneNumber = phoneNumber
	f.users[id] = user
	return nil
}

func (f *fakeStore) ListTodos(_ context.Context, ownerID int64) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todos := []models.Todo{}
	for _, todo := range f.todos {
		if todo.OwnerID == ownerID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (f *fakeStore) GetTodo(_ context.Context, ownerID, id int64) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo, ok := f.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return models.Todo{}, storage.ErrNotFound
	}
	return todo, nil
}

func (f *fakeStore) CreateTodo(_ context.Context, todo models.Todo) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo.ID = f.nextTodoID
	f.nextTodoID++
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeStore) UpdateTodo(_ context.Context, ownerID, id int64, todo models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.todos[id]
	if !ok || existing.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	existing.Title = todo.Title
	existing.Description = todo.Description
	existing.Priority = todo.Priority
	existing.Complete = todo.Complete
	f.todos[id] = existing
	return nil
}

func (f *fakeStore) DeleteTodo(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.todos[id]
	if !ok || existing.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeStore) ListAllTodos(_ context.Context) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todos := []models.Todo{}
	for _, todo := range f.todos {
		todos = append(todos, todo)
	}
	return todos, nil
}

func (f *fakeStore) DeleteAnyTodo(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.todos[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

// testEnv bundles the mux, store, and token manager for handler tests.
type testEnv struct {
	mux    *http.ServeMux
	store  *fakeStore
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	tokens := auth.NewTokenManager("test-secret", "todo-service", 20*time.Minute)
	authn := middleware.NewAuthenticator(tokens)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens).Register(mux)
	NewTodoHandler(store, authn).Register(mux)
	NewUserHandler(store, authn).Register(mux)
	NewAdminHandler(store, authn).Register(mux)

	return &testEnv{mux: mux, store: store, tokens: tokens}
}

// createUser seeds a user with a hashed password and returns it with a token.
func (e *testEnv) createUser(t *testing.T, username, password, role string) (models.User, string) {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := e.store.CreateUser(context.Background(), models.User{
		Username:       username,
		Email:          username + "@example.com",
		FirstName:      "Test",
		LastName:       "User",
		Role:           role,
		IsActive:       true,
		PhoneNumber:    "123-555-1234",
		HashedPassword: hashed,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := e.tokens.Generate(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ingenium21/todo-service/internal/models"
)

func todoPayload() map[string]any {
	return map[string]any{
		"title":       "learn to code",
		"description": "need to learn every day",
		"priority":    5,
		"complete":    false,
	}
}

func TestTodoCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", "pw1secret", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", "pw2secret", models.RoleUser)

	rec := doJSON(t, env.mux, http.MethodPost, "/todos/todo", aliceToken, todoPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}
	if created.OwnerID != alice.ID {
		t.Fatalf("owner = %d, want %d", created.OwnerID, alice.ID)
	}

	rec = doJSON(t, env.mux, http.MethodGet, "/todos/", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var aliceTodos []models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&aliceTodos); err != nil {
		t.Fatalf("decode todos: %v", err)
	}
	if len(aliceTodos) != 1 || aliceTodos[0].ID != created.ID {
		t.Fatalf("alice's list = %+v, want the created todo", aliceTodos)
	}

	rec = doJSON(t, env.mux, http.MethodGet, "/todos/", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var bobTodos []models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&bobTodos); err != nil {
		t.Fatalf("decode todos: %v", err)
	}
	if len(bobTodos) != 0 {
		t.Fatalf("bob's list = %+v, want empty", bobTodos)
	}
}

// Another user's todo must look exactly like a missing one: 404 on get,
// update, and delete alike.
func TestTodoOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.createUser(t, "alice", "pw1secret", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", "pw2secret", models.RoleUser)

	rec := doJSON(t, env.mux, http.MethodPost, "/todos/todo", aliceToken, todoPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}
	path := fmt.Sprintf("/todos/todo/%d", created.ID)

	if rec := doJSON(t, env.mux, http.MethodGet, path, bobToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get as bob = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, env.mux, http.MethodPut, path, bobToken, todoPayload()); rec.Code != http.StatusNotFound {
		t.Fatalf("update as bob = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, env.mux, http.MethodDelete, path, bobToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete as bob = %d, want 404", rec.Code)
	}

	// Still intact for the owner.
	if rec := doJSON(t, env.mux, http.MethodGet, path, aliceToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("get as alice = %d, want 200", rec.Code)
	}
}

func TestTodoUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", "pw1secret", models.RoleUser)

	rec := doJSON(t, env.mux, http.MethodPost, "/todos/todo", token, todoPayload())
	var created models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}
	path := fmt.Sprintf("/todos/todo/%d", created.ID)

	update := todoPayload()
	update["title"] = "updated title"
	update["complete"] = true
	if rec := doJSON(t, env.mux, http.MethodPut, path, token, update); rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = doJSON(t, env.mux, http.MethodGet, path, token, nil)
	var fetched models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode fetched todo: %v", err)
	}
	if fetched.Title != "updated title" || !fetched.Complete {
		t.Fatalf("update not applied: %+v", fetched)
	}

	if rec := doJSON(t, env.mux, http.MethodDelete, path, token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, env.mux, http.MethodGet, path, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}

func TestTodoValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", "pw1secret", models.RoleUser)

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"empty title", func(p map[string]any) { p["title"] = "" }},
		{"priority too high", func(p map[string]any) { p["priority"] = 6 }},
		{"priority too low", func(p map[string]any) { p["priority"] = 0 }},
		{"empty description", func(p map[string]any) { p["description"] = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := todoPayload()
			tc.mutate(payload)
			rec := doJSON(t, env.mux, http.MethodPost, "/todos/todo", token, payload)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
			list := doJSON(t, env.mux, http.MethodGet, "/todos/", token, nil)
			var todos []models.Todo
			if err := json.NewDecoder(list.Body).Decode(&todos); err != nil {
				t.Fatalf("decode todos: %v", err)
			}
			if len(todos) != 0 {
				t.Fatalf("invalid todo was persisted: %+v", todos)
			}
		})
	}
}

func TestTodoRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	if rec := doJSON(t, env.mux, http.MethodGet, "/todos/", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("list without token = %d, want 401", rec.Code)
	}
	if rec := doJSON(t, env.mux, http.MethodPost, "/todos/todo", "", todoPayload()); rec.Code != http.StatusUnauthorized {
		t.Fatalf("create without token = %d, want 401", rec.Code)
	}
}

package dto

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// TodoRequest is the payload for creating or fully replacing a todo.
// The owner is never taken from the client.
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

// Validate enforces the todo field constraints: non-empty title,
// description of 1-300 characters, priority within [1,5].
func (r TodoRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title must not be empty")
	}
	if n := utf8.RuneCountInString(r.Description); n < 1 || n > 300 {
		return errors.New("description must be between 1 and 300 characters")
	}
	if r.Priority < 1 || r.Priority > 5 {
		return errors.New("priority must be between 1 and 5")
	}
	return nil
}

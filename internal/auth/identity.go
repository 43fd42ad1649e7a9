package auth

import "github.com/ingenium21/todo-service/internal/models"

// Identity is the authenticated principal derived from a validated token.
// It lives for a single request and is never persisted.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

package models

import "time"

// User captures the account record behind an authenticated identity.
// HashedPassword never serializes and must never be written to logs.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	PhoneNumber    string    `json:"phone_number"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

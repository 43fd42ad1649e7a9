package dto

import (
	"errors"
	"strings"
	"unicode/utf8"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Validate performs the minimal field checks applied before hashing.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" {
		return errors.New("username and email are required")
	}
	if len(r.Password) < 6 || !utf8.ValidString(r.Password) {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

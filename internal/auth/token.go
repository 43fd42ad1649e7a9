package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ingenium21/todo-service/internal/models"
)

// ErrInvalidToken covers every validation failure: bad signature, malformed
// input, expiry, and missing required claims. Callers surface it as 401.
var ErrInvalidToken = errors.New("could not validate credentials")

// claims is the signed claim set carried by every issued token. UserID and
// Role ride alongside the registered sub/exp/iat claims.
type claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Role   string `json:"role"`
}

// TokenManager issues and validates signed identity tokens. The secret,
// issuer, and lifetime are fixed at construction; there is no global state.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate issues a signed HS256 token for the given user, expiring after
// the configured TTL.
func (t *TokenManager) Generate(user models.User) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

// Validate verifies the signature and expiry of a token and extracts the
// identity. A correctly signed token that lacks the subject or user id
// claims is rejected rather than resolved to a zero identity.
func (t *TokenManager) Validate(tokenStr string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if c.Subject == "" || c.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:   c.UserID,
		Username: c.Subject,
		Role:     c.Role,
	}, nil
}

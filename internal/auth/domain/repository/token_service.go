package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, userID, email string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// TokenVerifier checks a session token signature. It is nil when the
// configured identity provider offers no server-side verification.
type TokenVerifier interface {
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carries the subject both as user_id and as the registered sub
// claim, matching the layout of provider id tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

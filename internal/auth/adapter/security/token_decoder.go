package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"calisthenics-ai/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSubject is returned when a token carries neither user_id nor sub.
	ErrNoSubject = errors.New("token has no subject claim")

	ErrMalformedToken = errors.New("token must have three segments")
)

// DecodeUnverified reads the identity claims from the payload segment of a
// token without checking its signature or expiry. The header is not read, so
// any signing algorithm is accepted. Callers that need trust must verify the
// token separately.
func DecodeUnverified(token string) (*model.SessionUser, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := jwt.NewParser().DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("decode session token claims: %w", err)
	}

	subject := stringClaim(claims, "user_id")
	if subject == "" {
		subject = stringClaim(claims, "sub")
	}
	if subject == "" {
		return nil, ErrNoSubject
	}

	return &model.SessionUser{
		SubjectID: subject,
		Email:     stringClaim(claims, "email"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

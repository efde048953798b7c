package model

import "time"

// SessionUser is the identity decoded from the session token.
type SessionUser struct {
	SubjectID string `json:"uid"`
	Email     string `json:"email,omitempty"`
}

// Credential is what an identity provider returns on sign-in or sign-up.
type Credential struct {
	UserID    string
	Email     string
	IDToken   string
	ExpiresIn time.Duration
}

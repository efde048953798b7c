package repository

import (
	"context"

	"calisthenics-ai/internal/auth/domain/model"
)

// IdentityProvider authenticates email/password credentials and mints the
// session token. Failures are returned as *model.AuthProviderError.
type IdentityProvider interface {
	Name() string
	SignUp(ctx context.Context, email, password string) (*model.Credential, error)
	SignIn(ctx context.Context, email, password string) (*model.Credential, error)
	SignOut(ctx context.Context, idToken string) error
}

// UserRepository stores accounts for the local identity provider.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// ProfileWriter records the user profile document after sign-up.
type ProfileWriter interface {
	WriteProfile(ctx context.Context, userID, email string) error
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/domain/repository"
	"calisthenics-ai/internal/auth/usecase"
	"calisthenics-ai/internal/shared/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, userID, email string) (string, error)
	TTL() time.Duration
}

// LocalProvider keeps accounts in the user repository and issues its own
// HS256 tokens, which the auth middleware can verify.
type LocalProvider struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger logger.Logger
}

// NewLocalProvider creates a new local identity provider
func NewLocalProvider(users repository.UserRepository, tokens TokenIssuer, log logger.Logger) *LocalProvider {
	if log == nil {
		log = logger.Default()
	}
	return &LocalProvider{users: users, tokens: tokens, logger: log.WithComponent("local_identity")}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*model.Credential, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, model.NewAuthProviderError(model.CodeWeakPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return nil, model.NewAuthProviderError(model.CodeEmailAlreadyInUse)
		}
		p.logger.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Error("Failed to create user")
		return nil, model.NewAuthProviderError(model.CodeInternalError)
	}

	return p.issue(ctx, user)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*model.Credential, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return nil, model.NewAuthProviderError(model.CodeInvalidCredential)
		}
		p.logger.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Error("Failed to load user")
		return nil, model.NewAuthProviderError(model.CodeInternalError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewAuthProviderError(model.CodeInvalidCredential)
	}
	if user.Disabled {
		return nil, model.NewAuthProviderError(model.CodeUserDisabled)
	}

	return p.issue(ctx, user)
}

// SignOut is a no-op: tokens are stateless and expire on their own.
func (p *LocalProvider) SignOut(ctx context.Context, idToken string) error {
	return nil
}

func (p *LocalProvider) issue(ctx context.Context, user *model.User) (*model.Credential, error) {
	token, err := p.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &model.Credential{
		UserID:    user.ID,
		Email:     user.Email,
		IDToken:   token,
		ExpiresIn: p.tokens.TTL(),
	}, nil
}

var _ repository.IdentityProvider = (*LocalProvider)(nil)

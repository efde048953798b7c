package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/domain/repository"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/logger"
)

var (
	ErrEmailTaken   = errors.New("email is already taken")
	ErrUserNotFound = errors.New("user not found")
)

const minPasswordLength = 6

// Validation messages shown next to form fields.
const (
	MsgInvalidEmail     = "Invalid email address."
	MsgPasswordTooShort = "Password must be at least 6 characters."
	MsgPasswordMismatch = "Passwords do not match."
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Signup(ctx context.Context, req SignupRequest) (*model.Credential, error)
	Login(ctx context.Context, req LoginRequest) (*model.Credential, error)
	Logout(ctx context.Context, idToken string) error
}

// SignupRequest represents the sign-up form
type SignupRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	provider repository.IdentityProvider
	profiles repository.ProfileWriter
	logger   logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase. profiles may be nil.
func NewAuthUsecase(
	provider repository.IdentityProvider,
	profiles repository.ProfileWriter,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.Default()
	}
	return &AuthUsecase{
		provider: provider,
		profiles: profiles,
		logger:   log.WithComponent("auth_usecase"),
	}
}

// ValidateLogin checks the login form. It returns nil when the form is valid.
func ValidateLogin(req LoginRequest) *apperrors.ValidationErrors {
	ve := apperrors.NewValidationErrors()
	if !emailRegex.MatchString(req.Email) {
		ve.Add("email", MsgInvalidEmail, req.Email)
	}
	if len(req.Password) < minPasswordLength {
		ve.Add("password", MsgPasswordTooShort, nil)
	}
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

// ValidateSignup checks the sign-up form. The confirmation check only runs
// once the other fields are valid, and reports on confirmPassword.
func ValidateSignup(req SignupRequest) *apperrors.ValidationErrors {
	if ve := ValidateLogin(LoginRequest{Email: req.Email, Password: req.Password}); ve != nil {
		return ve
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.NewValidationErrors().Add("confirmPassword", MsgPasswordMismatch, nil)
	}
	return nil
}

// Signup validates the form, creates the account and writes the profile.
// The profile write is best effort: its failure is logged and sign-up succeeds.
func (uc *AuthUsecase) Signup(ctx context.Context, req SignupRequest) (*model.Credential, error) {
	req.Email = strings.TrimSpace(req.Email)
	if ve := ValidateSignup(req); ve != nil {
		return nil, ve
	}

	cred, err := uc.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"provider": uc.provider.Name(),
			"error":    err.Error(),
		}).Warn("Sign-up rejected by identity provider")
		return nil, err
	}

	if uc.profiles != nil {
		if perr := uc.profiles.WriteProfile(ctx, cred.UserID, cred.Email); perr != nil {
			uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
				"user_id": cred.UserID,
				"error":   perr.Error(),
			}).Error("Failed to write user profile after sign-up")
		}
	}

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"user_id": cred.UserID}).Info("User signed up")
	return cred, nil
}

// Login validates the form and signs the user in.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.Credential, error) {
	req.Email = strings.TrimSpace(req.Email)
	if ve := ValidateLogin(req); ve != nil {
		return nil, ve
	}

	cred, err := uc.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"provider": uc.provider.Name(),
			"error":    err.Error(),
		}).Warn("Sign-in rejected by identity provider")
		return nil, err
	}
	return cred, nil
}

// Logout signs the token out at the provider. Callers clear the session
// regardless of the returned error.
func (uc *AuthUsecase) Logout(ctx context.Context, idToken string) error {
	if err := uc.provider.SignOut(ctx, idToken); err != nil {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Warn("Provider sign-out failed")
		return err
	}
	return nil
}

var _ AuthUsecaseInterface = (*AuthUsecase)(nil)

package model

import (
	"fmt"
	"net/http"

	apperrors "calisthenics-ai/internal/shared/errors"
)

// Identity provider error codes.
const (
	CodeInvalidCredential     = "auth/invalid-credential"
	CodeUserDisabled          = "auth/user-disabled"
	CodeInvalidEmail          = "auth/invalid-email"
	CodeEmailAlreadyInUse     = "auth/email-already-in-use"
	CodeWeakPassword          = "auth/weak-password"
	CodeOperationNotAllowed   = "auth/operation-not-allowed"
	CodeConfigurationNotFound = "auth/configuration-not-found"
	CodeNetworkRequestFailed  = "auth/network-request-failed"
	CodeInternalError         = "auth/internal-error"
)

var providerMessages = map[string]string{
	CodeInvalidCredential:     "Invalid email or password.",
	CodeUserDisabled:          "This account has been disabled.",
	CodeInvalidEmail:          "Invalid email format.",
	CodeEmailAlreadyInUse:     "This email address is already in use.",
	CodeWeakPassword:          "The password is too weak. Please choose a stronger password.",
	CodeOperationNotAllowed:   "Email/Password sign-up is not enabled for this project. Please enable it in the identity provider's sign-in method settings.",
	CodeConfigurationNotFound: "Identity provider configuration error (auth/configuration-not-found). Please ensure the API key and project settings are correct and that authentication is set up for the project.",
}

// AuthProviderError is a failure reported by the identity provider. Message
// is safe to show to the user.
type AuthProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	app *apperrors.AppError
}

func (e *AuthProviderError) Error() string {
	return fmt.Sprintf("identity provider error %s: %s", e.Code, e.Message)
}

// Unwrap exposes the error as an application error carrying its HTTP status.
func (e *AuthProviderError) Unwrap() error {
	if e.app == nil {
		return nil
	}
	return e.app
}

// NewAuthProviderError builds the error for code with its fixed user message.
// Unknown codes get a generic message that carries the raw code. Rejected
// credentials are 401, every other provider failure 400.
func NewAuthProviderError(code string) *AuthProviderError {
	msg := ProviderMessage(code)
	status := http.StatusBadRequest
	if code == CodeInvalidCredential || code == CodeUserDisabled {
		status = http.StatusUnauthorized
	}
	return &AuthProviderError{
		Code:    code,
		Message: msg,
		app:     apperrors.NewProviderError(code, msg, status),
	}
}

// ProviderMessage returns the user-facing message for a provider code.
func ProviderMessage(code string) string {
	if msg, ok := providerMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("An unexpected error occurred (code: %s). Check server logs.", code)
}

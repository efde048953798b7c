package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "calisthenics-ai/internal/shared/errors"

	"github.com/stretchr/testify/assert"
)

func TestNewAuthProviderError_KnownCodes(t *testing.T) {
	tests := map[string]string{
		CodeInvalidCredential: "Invalid email or password.",
		CodeUserDisabled:      "This account has been disabled.",
		CodeInvalidEmail:      "Invalid email format.",
		CodeEmailAlreadyInUse: "This email address is already in use.",
		CodeWeakPassword:      "The password is too weak. Please choose a stronger password.",
	}
	for code, want := range tests {
		err := NewAuthProviderError(code)
		assert.Equal(t, code, err.Code)
		assert.Equal(t, want, err.Message)
	}
	assert.Contains(t, ProviderMessage(CodeConfigurationNotFound), "auth/configuration-not-found")
	assert.Contains(t, ProviderMessage(CodeOperationNotAllowed), "not enabled")
}

func TestNewAuthProviderError_UnknownCode(t *testing.T) {
	err := NewAuthProviderError("auth/too-many-requests")
	assert.Equal(t, "An unexpected error occurred (code: auth/too-many-requests). Check server logs.", err.Message)

	var target *AuthProviderError
	wrapped := fmt.Errorf("sign in: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "auth/too-many-requests", target.Code)
}

func TestAuthProviderError_HTTPStatus(t *testing.T) {
	tests := map[string]int{
		CodeInvalidCredential: http.StatusUnauthorized,
		CodeUserDisabled:      http.StatusUnauthorized,
		CodeEmailAlreadyInUse: http.StatusBadRequest,
		"auth/unmapped":       http.StatusBadRequest,
	}
	for code, want := range tests {
		err := fmt.Errorf("sign in: %w", NewAuthProviderError(code))
		assert.Equal(t, want, apperrors.HTTPStatus(err), code)

		var app *apperrors.AppError
		if assert.True(t, errors.As(err, &app), code) {
			assert.Equal(t, code, app.Code)
		}
	}
}

package http

import (
	"errors"

	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/usecase"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/form"
	"calisthenics-ai/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	msgSignupInvalid = "Invalid fields. Signup failed."
	msgSignupFailed  = "Signup failed."
	msgLoginInvalid  = "Invalid fields. Login failed."
	msgLoginFailed   = "Login failed."

	msgSignupUnexpected = "An unexpected error occurred during signup. Please check server logs for details."
	msgLoginUnexpected  = "Login failed. Please try again."
)

// AuthHTTPHandler handles the sign-up, login, logout and session endpoints.
type AuthHTTPHandler struct {
	usecase  usecase.AuthUsecaseInterface
	sessions *SessionManager
	logger   logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, sessions *SessionManager, log logger.Logger) *AuthHTTPHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AuthHTTPHandler{
		usecase:  uc,
		sessions: sessions,
		logger:   log.WithComponent("auth_handler"),
	}
}

// RegisterRoutes mounts the auth routes. limit guards the credential endpoints.
func (h *AuthHTTPHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	router.Post("/signup", limit, h.Signup)
	router.Post("/login", limit, h.Login)
	router.Post("/logout", h.Logout)

	router.Post("/api/session", h.CreateSession)
	router.Delete("/api/session", h.DeleteSession)
}

// Signup handles the sign-up form
func (h *AuthHTTPHandler) Signup(c *fiber.Ctx) error {
	var req usecase.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(form.Failed(msgSignupFailed, "Invalid request body."))
	}

	cred, err := h.usecase.Signup(c.UserContext(), req)
	if err != nil {
		return h.credentialError(c, err, msgSignupInvalid, msgSignupFailed, msgSignupUnexpected)
	}
	if err := h.sessions.Establish(c, cred.IDToken); err != nil {
		return h.sessionError(c, err, msgSignupFailed)
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Login handles the login form
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(form.Failed(msgLoginFailed, "Invalid request body."))
	}

	cred, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return h.credentialError(c, err, msgLoginInvalid, msgLoginFailed, msgLoginUnexpected)
	}
	if err := h.sessions.Establish(c, cred.IDToken); err != nil {
		return h.sessionError(c, err, msgLoginFailed)
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout signs out at the provider when possible and always clears the cookie.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	if token := h.sessions.Token(c); token != "" {
		_ = h.usecase.Logout(c.UserContext(), token)
	}
	h.sessions.Clear(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

type sessionRequest struct {
	IDToken string `json:"idToken" form:"idToken"`
}

// CreateSession sets the session cookie from a token obtained by the client.
func (h *AuthHTTPHandler) CreateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID token is required",
		})
	}

	if err := h.sessions.Establish(c, req.IDToken); err != nil {
		h.logger.WithContext(c.UserContext()).WithFields(map[string]interface{}{"error": err.Error()}).Error("Failed to establish session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// DeleteSession clears the session cookie.
func (h *AuthHTTPHandler) DeleteSession(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return c.JSON(fiber.Map{"status": "success"})
}

func (h *AuthHTTPHandler) credentialError(c *fiber.Ctx, err error, invalidMsg, failedMsg, unexpectedMsg string) error {
	status := apperrors.HTTPStatus(err)

	var ve *apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return c.Status(status).JSON(form.Invalid(ve, invalidMsg))
	}

	var provErr *model.AuthProviderError
	if errors.As(err, &provErr) {
		return c.Status(status).JSON(form.Failed(failedMsg, provErr.Message))
	}

	h.logger.WithContext(c.UserContext()).WithFields(map[string]interface{}{"error": err.Error()}).Error("Authentication failed unexpectedly")
	return c.Status(status).JSON(form.Failed(failedMsg, unexpectedMsg))
}

func (h *AuthHTTPHandler) sessionError(c *fiber.Ctx, err error, failedMsg string) error {
	h.logger.WithContext(c.UserContext()).WithFields(map[string]interface{}{"error": err.Error()}).Error("Failed to establish session")
	return c.Status(apperrors.HTTPStatus(err)).JSON(form.Failed(failedMsg, ErrSessionUnavailable.Message))
}

package http

import (
	"errors"
	"time"

	"calisthenics-ai/internal/auth/adapter/security"
	"calisthenics-ai/internal/auth/config"
	"calisthenics-ai/internal/auth/domain/model"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const sessionLocalsKey = "session.token"

var (
	// ErrEmptyToken is returned by Establish for an empty token.
	ErrEmptyToken = errors.New("session token cannot be empty")

	// ErrSessionUnavailable is returned when there is no request to attach the
	// session cookie to.
	ErrSessionUnavailable = apperrors.NewSessionError("Authentication requires a valid request context")
)

// sessionLocal records what Establish or Clear did during this request, so a
// later read in the same request does not see the stale request cookie.
type sessionLocal struct {
	token   string
	cleared bool
}

// SessionManager owns the session cookie: it writes the token after sign-in,
// decodes the current user from it and removes it on logout.
type SessionManager struct {
	cookieName string
	path       string
	domain     string
	maxAge     int
	secure     bool
	sameSite   string
	logger     logger.Logger
}

// NewSessionManager creates a session manager from the auth config.
func NewSessionManager(cfg *config.Config, log logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Default()
	}
	return &SessionManager{
		cookieName: cfg.CookieName,
		path:       cfg.CookiePath,
		domain:     cfg.CookieDomain,
		maxAge:     int(cfg.SessionTTL / time.Second),
		secure:     cfg.CookieSecure || cfg.IsProduction(),
		sameSite:   cfg.CookieSameSite,
		logger:     log.WithComponent("session_manager"),
	}
}

// CookieName is the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Establish stores token in the session cookie.
func (m *SessionManager) Establish(c *fiber.Ctx, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if c == nil {
		m.logger.Error("Cannot establish session without a request context")
		return ErrSessionUnavailable
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   m.maxAge,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: m.sameSite,
	})
	c.Locals(sessionLocalsKey, sessionLocal{token: token})
	return nil
}

// Token returns the raw session token of the request, or "".
func (m *SessionManager) Token(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if local, ok := c.Locals(sessionLocalsKey).(sessionLocal); ok {
		if local.cleared {
			return ""
		}
		return local.token
	}
	return c.Cookies(m.cookieName)
}

// CurrentUser decodes the session token without verifying its signature.
// A missing or undecodable token yields no user; decode failures are logged.
func (m *SessionManager) CurrentUser(c *fiber.Ctx) (*model.SessionUser, bool) {
	token := m.Token(c)
	if token == "" {
		return nil, false
	}

	user, err := security.DecodeUnverified(token)
	if err != nil {
		m.logger.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Failed to decode session token")
		return nil, false
	}
	return user, true
}

// Clear expires the session cookie. It never fails: without a request context
// the failure is logged and logout proceeds.
func (m *SessionManager) Clear(c *fiber.Ctx) {
	if c == nil {
		m.logger.WithFields(map[string]interface{}{
			"error": ErrSessionUnavailable.Error(),
		}).Error("Cannot clear session cookie without a request context")
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   -1,
		Expires:  fasthttp.CookieExpireDelete,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: m.sameSite,
	})
	c.Locals(sessionLocalsKey, sessionLocal{cleared: true})
}

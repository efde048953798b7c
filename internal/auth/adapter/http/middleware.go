package http

import (
	"context"
	"net/url"
	"strings"
	"time"

	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/domain/repository"
	"calisthenics-ai/internal/shared/contextkeys"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const sessionUserLocalsKey = "session.user"

// ProtectedPrefixes are the page paths that need a session cookie.
var ProtectedPrefixes = []string{
	"/dashboard",
	"/log-workout",
	"/training-plan",
	"/progress",
	"/journal",
	"/recommendations",
	"/settings",
}

var authPagePrefixes = []string{"/login", "/signup"}

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	sessions *SessionManager
	verifier repository.TokenVerifier
	logger   logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware. verifier may be
// nil, in which case session claims are trusted without a signature check.
func NewAuthMiddleware(sessions *SessionManager, verifier repository.TokenVerifier, log logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Default()
	}
	return &AuthMiddleware{
		sessions: sessions,
		verifier: verifier,
		logger:   log.WithComponent("auth_middleware"),
	}
}

// Verifies reports whether session tokens are checked server-side.
func (m *AuthMiddleware) Verifies() bool {
	return m.verifier != nil
}

// CORS middleware with security headers
func (m *AuthMiddleware) CORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With,X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// SecurityHeaders adds security headers
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter limits login and sign-up attempts per client. storage may be nil
// for the in-memory default.
func (m *AuthMiddleware) RateLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "auth:" + c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"errors":  fiber.Map{"form": []string{"Too many attempts. Please try again later."}},
				"message": "Rate limit exceeded.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: "requestid",
	})
}

// RouteGuard redirects page requests based on the session user resolved by
// Authenticate, which must run first: protected pages without a user go to
// /login with redirect_to, /login and /signup with one go to /dashboard, and
// / goes to either.
func (m *AuthMiddleware) RouteGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		path := c.Path()
		_, signedIn := SessionUser(c)

		if path == "/" {
			if signedIn {
				return c.Redirect("/dashboard", fiber.StatusSeeOther)
			}
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if !signedIn && hasPrefix(path, ProtectedPrefixes) {
			return c.Redirect("/login?redirect_to="+url.QueryEscape(path), fiber.StatusSeeOther)
		}
		if signedIn && hasPrefix(path, authPagePrefixes) {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// Authenticate resolves the session user, if any, into the request context.
// A cookie that yields no user is expired so it cannot keep a stale session
// alive on later requests.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ctx = utils.WithRequestID(ctx, rid)
		}

		user, verified := m.resolve(c, ctx)
		if user != nil {
			ctx = utils.WithUserID(ctx, user.SubjectID)
			ctx = utils.WithUserEmail(ctx, user.Email)
			ctx = utils.WithTokenVerified(ctx, verified)
			c.Locals(sessionUserLocalsKey, user)
		} else if m.sessions.Token(c) != "" {
			m.sessions.Clear(c)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireSession rejects requests without a session user. Pages are sent to
// the login page, everything else gets a 401 form state.
func (m *AuthMiddleware) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionUser(c); ok {
			return c.Next()
		}
		if c.Method() == fiber.MethodGet {
			return c.Redirect("/login?redirect_to="+url.QueryEscape(c.Path()), fiber.StatusSeeOther)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"errors":  fiber.Map{"form": []string{"You must be logged in."}},
			"message": "Authentication required.",
		})
	}
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx, ctx context.Context) (*model.SessionUser, bool) {
	if m.verifier == nil {
		user, ok := m.sessions.CurrentUser(c)
		if !ok {
			return nil, false
		}
		return user, false
	}

	token := m.sessions.Token(c)
	if token == "" {
		return nil, false
	}
	claims, err := m.verifier.ValidateToken(ctx, token)
	if err != nil {
		m.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Rejected session token")
		return nil, false
	}
	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	return &model.SessionUser{SubjectID: subject, Email: claims.Email}, true
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// SessionUser returns the user resolved by Authenticate.
func SessionUser(c *fiber.Ctx) (*model.SessionUser, bool) {
	user, ok := c.Locals(sessionUserLocalsKey).(*model.SessionUser)
	return user, ok && user != nil
}

// UserIDFromContext is a shortcut used by other modules' handlers.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(string)
	return id, ok && id != ""
}

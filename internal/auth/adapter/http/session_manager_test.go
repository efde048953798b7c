package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calisthenics-ai/internal/auth/config"
	"calisthenics-ai/internal/auth/domain/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		CookieName:     config.SessionCookieName,
		CookiePath:     "/",
		CookieSameSite: "Lax",
		SessionTTL:     2 * time.Hour,
	}
}

func testToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type userSnapshot struct {
	Before *model.SessionUser `json:"before"`
	After  *model.SessionUser `json:"after"`
	Err    string             `json:"err,omitempty"`
}

func decodeSnapshot(t *testing.T, resp *http.Response) userSnapshot {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var p userSnapshot
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestSessionManager_EstablishSetsCookieContract(t *testing.T) {
	sm := NewSessionManager(testAuthConfig(), nil)
	token := testToken(`{"user_id":"uid-1","email":"user@example.com"}`)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		before, _ := sm.CurrentUser(c)
		if err := sm.Establish(c, token); err != nil {
			return c.JSON(userSnapshot{Err: err.Error()})
		}
		after, _ := sm.CurrentUser(c)
		return c.JSON(userSnapshot{Before: before, After: after})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)

	cookie := findCookie(resp, config.SessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	snap := decodeSnapshot(t, resp)
	assert.Nil(t, snap.Before)
	require.NotNil(t, snap.After)
	assert.Equal(t, "uid-1", snap.After.SubjectID)
	assert.Equal(t, "user@example.com", snap.After.Email)
}

func TestSessionManager_SecureInProduction(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Environment = "production"
	sm := NewSessionManager(cfg, nil)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return sm.Establish(c, "tok")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	cookie := findCookie(resp, config.SessionCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
}

func TestSessionManager_EstablishErrors(t *testing.T) {
	sm := NewSessionManager(testAuthConfig(), nil)

	assert.ErrorIs(t, sm.Establish(nil, ""), ErrEmptyToken)
	assert.ErrorIs(t, sm.Establish(nil, "tok"), ErrSessionUnavailable)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		if err := sm.Establish(c, ""); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, findCookie(resp, config.SessionCookieName))
}

func TestSessionManager_CurrentUser(t *testing.T) {
	sm := NewSessionManager(testAuthConfig(), nil)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		first, ok1 := sm.CurrentUser(c)
		second, ok2 := sm.CurrentUser(c)
		if ok1 != ok2 {
			return c.SendStatus(fiber.StatusConflict)
		}
		return c.JSON(userSnapshot{Before: first, After: second})
	})

	tests := []struct {
		name    string
		cookie  string
		subject string
	}{
		{"no cookie", "", ""},
		{"user_id claim", testToken(`{"user_id":"uid-1","sub":"ignored","email":"a@b.co"}`), "uid-1"},
		{"sub fallback", testToken(`{"sub":"uid-2"}`), "uid-2"},
		{"garbage", "not-a-token", ""},
		{"bad payload", "aaa.###.ccc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: config.SessionCookieName, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			snap := decodeSnapshot(t, resp)
			assert.Equal(t, snap.Before, snap.After)
			if tt.subject == "" {
				assert.Nil(t, snap.Before)
				return
			}
			require.NotNil(t, snap.Before)
			assert.Equal(t, tt.subject, snap.Before.SubjectID)
		})
	}
}

func TestSessionManager_ClearExpiresCookie(t *testing.T) {
	sm := NewSessionManager(testAuthConfig(), nil)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		before, _ := sm.CurrentUser(c)
		sm.Clear(c)
		after, _ := sm.CurrentUser(c)
		return c.JSON(userSnapshot{Before: before, After: after})
	})

	req := httptest.NewRequest("POST", "/", nil)
	req.AddCookie(&http.Cookie{Name: config.SessionCookieName, Value: testToken(`{"sub":"uid-1"}`)})
	resp, err := app.Test(req)
	require.NoError(t, err)

	cookie := findCookie(resp, config.SessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))

	snap := decodeSnapshot(t, resp)
	require.NotNil(t, snap.Before)
	assert.Nil(t, snap.After)
}

func TestSessionManager_NilContext(t *testing.T) {
	sm := NewSessionManager(testAuthConfig(), nil)

	assert.NotPanics(t, func() { sm.Clear(nil) })
	user, ok := sm.CurrentUser(nil)
	assert.False(t, ok)
	assert.Nil(t, user)
	assert.Empty(t, sm.Token(nil))
}

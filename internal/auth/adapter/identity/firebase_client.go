package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/domain/repository"
	"calisthenics-ai/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	signUpPath = "/accounts:signUp"
	signInPath = "/accounts:signInWithPassword"
)

// firebaseCodes maps Identity Toolkit error messages to provider codes.
var firebaseCodes = map[string]string{
	"EMAIL_EXISTS":                model.CodeEmailAlreadyInUse,
	"INVALID_LOGIN_CREDENTIALS":   model.CodeInvalidCredential,
	"INVALID_PASSWORD":            model.CodeInvalidCredential,
	"EMAIL_NOT_FOUND":             model.CodeInvalidCredential,
	"USER_DISABLED":               model.CodeUserDisabled,
	"INVALID_EMAIL":               model.CodeInvalidEmail,
	"WEAK_PASSWORD":               model.CodeWeakPassword,
	"OPERATION_NOT_ALLOWED":       model.CodeOperationNotAllowed,
	"CONFIGURATION_NOT_FOUND":     model.CodeConfigurationNotFound,
	"TOO_MANY_ATTEMPTS_TRY_LATER": "auth/too-many-requests",
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordResponse struct {
	IDToken   string `json:"idToken"`
	Email     string `json:"email"`
	LocalID   string `json:"localId"`
	ExpiresIn string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FirebaseClient talks to the Identity Toolkit REST API. It needs only the
// web API key, so it cannot verify or revoke tokens.
type FirebaseClient struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	logger   logger.Logger
}

// NewFirebaseClient creates a new Identity Toolkit client
func NewFirebaseClient(endpoint, apiKey string, timeout time.Duration, log logger.Logger) *FirebaseClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &FirebaseClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		timeout:  timeout,
		logger:   log.WithComponent("firebase_identity"),
	}
}

func (c *FirebaseClient) Name() string { return "firebase" }

func (c *FirebaseClient) SignUp(ctx context.Context, email, password string) (*model.Credential, error) {
	return c.passwordCall(ctx, signUpPath, email, password)
}

func (c *FirebaseClient) SignIn(ctx context.Context, email, password string) (*model.Credential, error) {
	return c.passwordCall(ctx, signInPath, email, password)
}

// SignOut has nothing to revoke without admin credentials.
func (c *FirebaseClient) SignOut(ctx context.Context, idToken string) error {
	return nil
}

func (c *FirebaseClient) passwordCall(ctx context.Context, path, email, password string) (*model.Credential, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, model.NewAuthProviderError(model.CodeNetworkRequestFailed)
	}

	url := c.endpoint + path + "?key=" + c.apiKey
	agent := fiber.Post(url).
		JSON(passwordRequest{Email: email, Password: password, ReturnSecureToken: true}).
		Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("build identity provider request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		c.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"path":  path,
			"error": errs[0].Error(),
		}).Error("Identity provider request failed")
		return nil, model.NewAuthProviderError(model.CodeNetworkRequestFailed)
	}

	if status != fiber.StatusOK {
		return nil, c.providerError(ctx, status, body)
	}

	var resp passwordResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode identity provider response: %w", err)
	}
	if resp.IDToken == "" || resp.LocalID == "" {
		return nil, model.NewAuthProviderError(model.CodeInternalError)
	}

	cred := &model.Credential{
		UserID:  resp.LocalID,
		Email:   resp.Email,
		IDToken: resp.IDToken,
	}
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil {
		cred.ExpiresIn = time.Duration(secs) * time.Second
	}
	return cred, nil
}

func (c *FirebaseClient) providerError(ctx context.Context, status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error.Message == "" {
		c.logger.WithContext(ctx).WithFields(map[string]interface{}{"status": status}).Error("Unreadable identity provider error")
		return model.NewAuthProviderError(model.CodeInternalError)
	}

	// messages look like "WEAK_PASSWORD : Password should be at least 6 characters"
	key := er.Error.Message
	if idx := strings.Index(key, " "); idx != -1 {
		key = key[:idx]
	}
	code, ok := firebaseCodes[key]
	if !ok {
		code = "auth/" + strings.ToLower(strings.ReplaceAll(key, "_", "-"))
	}
	return model.NewAuthProviderError(code)
}

var _ repository.IdentityProvider = (*FirebaseClient)(nil)

package auth

import (
	"context"
	"fmt"

	authhttp "calisthenics-ai/internal/auth/adapter/http"
	"calisthenics-ai/internal/auth/adapter/identity"
	"calisthenics-ai/internal/auth/adapter/persistence/mongodb"
	"calisthenics-ai/internal/auth/adapter/security"
	"calisthenics-ai/internal/auth/config"
	"calisthenics-ai/internal/auth/domain/repository"
	"calisthenics-ai/internal/auth/usecase"
	"calisthenics-ai/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared resources the auth module builds on. Every
// field is optional: without a database accounts are kept in memory, and
// without Redis the rate limiter keeps its counters in process. Users, when
// set, replaces the account store the local provider would otherwise build.
type Dependencies struct {
	Database *mongo.Database
	Users    repository.UserRepository
	Redis    redis.UniversalClient
	Profiles repository.ProfileWriter
	Logger   logger.Logger
}

// AuthModule represents the complete authentication module
type AuthModule struct {
	provider   repository.IdentityProvider
	usecase    usecase.AuthUsecaseInterface
	sessions   *authhttp.SessionManager
	middleware *authhttp.AuthMiddleware
	handler    *authhttp.AuthHTTPHandler
	limiter    fiber.Handler
	config     *config.Config
	logger     logger.Logger
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(ctx context.Context, cfg *config.Config, deps Dependencies) (*AuthModule, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("auth")

	provider, verifier, err := newProvider(ctx, cfg, deps, log)
	if err != nil {
		return nil, err
	}

	sessions := authhttp.NewSessionManager(cfg, log)
	middleware := authhttp.NewAuthMiddleware(sessions, verifier, log)
	authUsecase := usecase.NewAuthUsecase(provider, deps.Profiles, log)

	var storage fiber.Storage
	if deps.Redis != nil {
		storage = authhttp.NewRedisLimiterStorage(deps.Redis, "calisthenics:ratelimit:")
	}

	if !middleware.Verifies() {
		log.WithFields(map[string]interface{}{
			"provider": provider.Name(),
		}).Warn("Session tokens are not verified server-side; claims are trusted as presented")
	}

	return &AuthModule{
		provider:   provider,
		usecase:    authUsecase,
		sessions:   sessions,
		middleware: middleware,
		handler:    authhttp.NewAuthHTTPHandler(authUsecase, sessions, log),
		limiter:    middleware.RateLimiter(cfg.RateLimit, cfg.RateWindow, storage),
		config:     cfg,
		logger:     log,
	}, nil
}

func newProvider(ctx context.Context, cfg *config.Config, deps Dependencies, log logger.Logger) (repository.IdentityProvider, repository.TokenVerifier, error) {
	switch cfg.IdentityProvider {
	case config.ProviderFirebase:
		return identity.NewFirebaseClient(cfg.FirebaseAuthEndpoint, cfg.FirebaseAPIKey, cfg.ProviderTimeout, log), nil, nil

	case config.ProviderLocal, "":
		tokens, err := security.NewJWTokenService(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create token service: %w", err)
		}

		users := deps.Users
		if users != nil {
			return identity.NewLocalProvider(users, tokens, log), tokens, nil
		}
		if deps.Database != nil {
			repo, err := mongodb.NewMongoUserRepository(ctx, deps.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create user repository: %w", err)
			}
			users = repo
		} else {
			log.Warn("No database configured, accounts are kept in memory")
			users = identity.NewMemoryUserRepository()
		}
		return identity.NewLocalProvider(users, tokens, log), tokens, nil

	default:
		return nil, nil, fmt.Errorf("unknown identity provider %q", cfg.IdentityProvider)
	}
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.RegisterRoutes(router, am.limiter)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// Sessions returns the session manager shared by every page and action.
func (am *AuthModule) Sessions() *authhttp.SessionManager {
	return am.sessions
}

// ProviderName reports which identity provider is active.
func (am *AuthModule) ProviderName() string {
	return am.provider.Name()
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	am.logger.Info("Auth module stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "calisthenics-ai/internal/auth/config"
	coachconfig "calisthenics-ai/internal/coach/config"
	"calisthenics-ai/internal/di"
	"calisthenics-ai/internal/shared/database"
	"calisthenics-ai/internal/shared/logger"
	workoutconfig "calisthenics-ai/internal/workout/config"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string `env:"SERVER_HOST" envDefault:"localhost"`
	Port         string `env:"SERVER_PORT" envDefault:"3000"`
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}
	workoutCfg, err := workoutconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load store configuration: %v", err)
	}
	coachCfg, err := coachconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load coach configuration: %v", err)
	}
	redisCfg := &database.RedisConfig{}
	if err := env.Parse(redisCfg); err != nil {
		log.Fatalf("Failed to load Redis configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.ConnectStores(ctx, workoutCfg, redisCfg); err != nil {
		log.Fatalf("Failed to connect stores: %v", err)
	}
	if err := container.InitializeCoach(ctx, coachCfg); err != nil {
		log.Fatalf("Failed to initialize coach module: %v", err)
	}
	if err := container.InitializeWorkout(workoutCfg); err != nil {
		log.Fatalf("Failed to initialize workout module: %v", err)
	}
	if err := container.InitializeAuth(ctx, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.WithFields(map[string]interface{}{
		"store_driver":      workoutCfg.StoreDriver,
		"ai_provider":       coachCfg.Provider,
		"identity_provider": authCfg.IdentityProvider,
	}).Info("Modules initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Calisthenics AI",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.WithContext(c.UserContext()).Errorf("HTTP Error: %v", err)
			}
			return c.Status(code).JSON(fiber.Map{
				"errors":  fiber.Map{"form": []string{err.Error()}},
				"message": "Request failed.",
			})
		},
	})

	authModule := container.GetAuthModule()
	workoutModule := container.GetWorkoutModule()
	mw := authModule.GetMiddleware()

	app.Use(recover.New())
	app.Use(mw.RequestID())
	app.Use(mw.SecurityHeaders())
	app.Use(mw.CORS(serverCfg.AllowOrigins))
	app.Use(mw.Authenticate())
	app.Use(mw.RouteGuard())

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		components, err := container.HealthCheck(healthCtx)
		if err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":     "UNHEALTHY",
				"error":      err.Error(),
				"components": components,
			})
		}
		return c.JSON(fiber.Map{
			"status":     "HEALTHY",
			"timestamp":  time.Now().UTC(),
			"components": components,
		})
	})

	authModule.RegisterRoutes(app)
	workoutModule.RegisterRoutes(app, mw.RequireSession())

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed to start: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}

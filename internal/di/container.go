package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"calisthenics-ai/internal/auth"
	authconfig "calisthenics-ai/internal/auth/config"
	"calisthenics-ai/internal/coach"
	coachconfig "calisthenics-ai/internal/coach/config"
	"calisthenics-ai/internal/shared/database"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/workout"
	workoutconfig "calisthenics-ai/internal/workout/config"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Container owns the shared connections and the modules built on them.
// Modules are initialized in dependency order: stores, coach, workout, auth.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule    *auth.AuthModule
	CoachModule   *coach.CoachModule
	WorkoutModule *workout.WorkoutModule

	// Connections, nil when the backend is not configured
	MongoClient *mongo.Client
	Partitions  *database.PartitionManager
	Redis       *redis.Client

	Logger logger.Logger
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Logger: log.WithComponent("container")}
}

// ConnectStores opens MongoDB when the workout store needs it and Redis when
// an address is configured. Redis is optional: a failed connection is logged
// and the coach and rate limiter fall back to process memory.
func (c *Container) ConnectStores(ctx context.Context, workoutCfg *workoutconfig.Config, redisCfg *database.RedisConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if workoutCfg.StoreDriver == workoutconfig.DriverMongoDB {
		connectCtx, cancel := context.WithTimeout(ctx, workoutCfg.ConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(workoutCfg.MongoDBURI))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		c.MongoClient = client
		c.Partitions = database.NewPartitionManager(client, &workoutCfg.Partitions, c.Logger)
		c.Logger.Info("MongoDB connection established successfully")
	}

	if redisCfg.Enabled() {
		client, err := database.ConnectRedis(ctx, redisCfg)
		if err != nil {
			c.Logger.WithFields(map[string]interface{}{
				"addr":  redisCfg.Addr,
				"error": err.Error(),
			}).Warn("Redis unavailable, continuing without it")
		} else {
			c.Redis = client
			c.Logger.Info("Redis connection established successfully")
		}
	}
	return nil
}

// InitializeCoach initializes the generative coach.
func (c *Container) InitializeCoach(ctx context.Context, cfg *coachconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rdb redis.UniversalClient
	if c.Redis != nil {
		rdb = c.Redis
	}
	cm, err := coach.NewCoachModule(ctx, cfg, rdb, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create coach module: %w", err)
	}
	c.CoachModule = cm
	return nil
}

// InitializeWorkout initializes the workout stores, actions and pages.
func (c *Container) InitializeWorkout(cfg *workoutconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CoachModule == nil {
		return fmt.Errorf("coach module must be initialized before workout module")
	}

	wm, err := workout.NewWorkoutModule(cfg, workout.Dependencies{
		Partitions: c.Partitions,
		Coach:      c.CoachModule.GetUsecase(),
		Logger:     c.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create workout module: %w", err)
	}
	c.WorkoutModule = wm
	return nil
}

// InitializeAuth initializes authentication. Sign-up writes profiles through
// the workout module, so it must exist first. The account store gets the raw
// database handle: an unprovisioned database surfaces on each request instead
// of stopping startup.
func (c *Container) InitializeAuth(ctx context.Context, cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WorkoutModule == nil {
		return fmt.Errorf("workout module must be initialized before auth module")
	}

	deps := auth.Dependencies{
		Profiles: c.WorkoutModule.Profiles(),
		Logger:   c.Logger,
	}
	if c.Partitions != nil {
		deps.Database = c.Partitions.Handle()
	}
	if c.Redis != nil {
		deps.Redis = c.Redis
	}

	am, err := auth.NewAuthModule(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = am
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetWorkoutModule returns the workout module instance
func (c *Container) GetWorkoutModule() *workout.WorkoutModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WorkoutModule
}

// HealthCheck pings every open connection and reports the state of each
// component. The error is set when any connection failed.
func (c *Container) HealthCheck(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := map[string]string{
		"mongodb": "disabled",
		"redis":   "disabled",
		"coach":   "disabled",
	}
	var failed error

	if c.MongoClient != nil {
		status["mongodb"] = "healthy"
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			status["mongodb"] = "unhealthy"
			failed = fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		status["redis"] = "healthy"
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unhealthy"
			if failed == nil {
				failed = fmt.Errorf("Redis health check failed: %w", err)
			}
		}
	}
	if c.CoachModule != nil && c.CoachModule.Enabled() {
		status["coach"] = "enabled"
	}
	if c.AuthModule != nil {
		status["identity_provider"] = c.AuthModule.ProviderName()
	}
	return status, failed
}

// Cleanup stops modules in reverse order of initialization and closes the
// connections.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.AuthModule != nil {
		_ = c.AuthModule.Stop()
		c.AuthModule = nil
	}
	if c.WorkoutModule != nil {
		_ = c.WorkoutModule.Stop()
		c.WorkoutModule = nil
	}
	if c.CoachModule != nil {
		_ = c.CoachModule.Stop()
		c.CoachModule = nil
	}

	if c.Partitions != nil {
		_ = c.Partitions.Close()
		c.Partitions = nil
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
		c.Redis = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.WithFields(map[string]interface{}{"error": err.Error()}).Warn("Cleanup errors occurred")
		return err
	}
	c.Logger.Info("Container resources closed")
	return nil
}

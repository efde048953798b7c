package di

import (
	"context"
	"testing"
	"time"

	authconfig "calisthenics-ai/internal/auth/config"
	coachconfig "calisthenics-ai/internal/coach/config"
	"calisthenics-ai/internal/shared/database"
	"calisthenics-ai/internal/shared/utils"
	workoutconfig "calisthenics-ai/internal/workout/config"
	"calisthenics-ai/internal/workout/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func testAuthConfig() *authconfig.Config {
	return &authconfig.Config{
		Environment:      "test",
		IdentityProvider: authconfig.ProviderLocal,
		JWTSecretKey:     "test-secret-key-32-characters-long-12345",
		JWTIssuer:        "container-test",
		SessionTTL:       2 * time.Hour,
		CookieName:       authconfig.SessionCookieName,
		CookiePath:       "/",
		CookieSameSite:   "Lax",
		RateLimit:        10,
		RateWindow:       time.Minute,
	}
}

func disabledCoach(t *testing.T) *coachconfig.Config {
	cfg := &coachconfig.Config{Provider: coachconfig.ProviderNone}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestContainer_InMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(nil)

	require.NoError(t, c.ConnectStores(ctx, workoutconfig.DefaultConfig(), &database.RedisConfig{}))
	assert.Nil(t, c.MongoClient)
	assert.Nil(t, c.Redis)

	require.Error(t, c.InitializeAuth(ctx, testAuthConfig()))
	require.Error(t, c.InitializeWorkout(workoutconfig.DefaultConfig()))

	require.NoError(t, c.InitializeCoach(ctx, disabledCoach(t)))
	require.NoError(t, c.InitializeWorkout(workoutconfig.DefaultConfig()))
	require.NoError(t, c.InitializeAuth(ctx, testAuthConfig()))

	assert.NotNil(t, c.GetAuthModule())
	assert.NotNil(t, c.GetWorkoutModule())

	status, err := c.HealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "disabled", status["mongodb"])
	assert.Equal(t, "disabled", status["coach"])
	assert.Equal(t, "local", status["identity_provider"])

	require.NoError(t, c.Close())
	assert.Nil(t, c.GetAuthModule())
}

func TestContainer_UnprovisionedDatabaseIsNotFatal(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pages_report_store_unavailable", func(mt *mtest.T) {
		ctx := context.Background()
		workoutCfg := &workoutconfig.Config{
			StoreDriver:       workoutconfig.DriverMongoDB,
			MongoDBURI:        "mongodb://mock",
			SuggestionHistory: 5,
			Partitions: database.PartitionConfig{
				DatabaseName:       "calisthenics_ai",
				AutoCreateDatabase: false,
				OperationTimeout:   5 * time.Second,
			},
		}

		c := NewContainer(nil)
		// The mock client belongs to mtest, so only the partition manager is set.
		c.Partitions = database.NewPartitionManager(mt.Client, &workoutCfg.Partitions, c.Logger)

		require.NoError(t, c.InitializeCoach(ctx, disabledCoach(t)))
		require.NoError(t, c.InitializeWorkout(workoutCfg))

		// email index of the account store
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(t, c.InitializeAuth(ctx, testAuthConfig()))

		// no _metadata marker
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "calisthenics_ai._metadata", mtest.FirstBatch))
		userCtx := utils.WithUserID(ctx, "user-1")
		dash := c.GetWorkoutModule().GetWorkoutUsecase().Dashboard(userCtx, "user-1")
		assert.Equal(t, usecase.StatusStoreUnavailable, dash.Status)
		assert.NotNil(t, dash.Logs)
		assert.Empty(t, dash.Logs)

		require.NoError(t, c.Close())
	})
}

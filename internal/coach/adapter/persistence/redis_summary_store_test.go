package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestRedisClient creates a Redis client for testing
func createTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:6379",
		DB:           15,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func TestRedisSummaryStore_AppendAndLatest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := createTestRedisClient()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available for testing:", err)
	}
	prefix := fmt.Sprintf("test:summaries:%d:", time.Now().UnixNano())
	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		client.Del(cleanupCtx, prefix+"user-1", prefix+"user-2")
		client.Close()
	}()

	store := NewRedisSummaryStore(client, prefix, 3, logger.NewLogger())

	latest, err := store.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Append(ctx, "user-1", model.WorkoutSummary{
			Summary: fmt.Sprintf("session %d", i),
			Trends:  "steady",
		}))
	}

	latest, err = store.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "session 5", latest.Summary)
	assert.Equal(t, "steady", latest.Trends)

	other, err := store.Latest(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedisSummaryStore_RequiresUser(t *testing.T) {
	store := NewRedisSummaryStore(createTestRedisClient(), "p:", 0, nil)
	assert.Error(t, store.Append(context.Background(), "", model.WorkoutSummary{}))
	_, err := store.Latest(context.Background(), "")
	assert.Error(t, err)
}

func TestParseSummary(t *testing.T) {
	s, err := parseSummary(redis.XMessage{ID: "1-0", Values: map[string]interface{}{
		"summary": `{"summary":"good","trends":"up","progressHighlights":"first muscle-up"}`,
	}})
	require.NoError(t, err)
	assert.Equal(t, "first muscle-up", s.ProgressHighlights)

	_, err = parseSummary(redis.XMessage{ID: "2-0", Values: map[string]interface{}{}})
	assert.Error(t, err)

	_, err = parseSummary(redis.XMessage{ID: "3-0", Values: map[string]interface{}{"summary": "{"}})
	assert.Error(t, err)
}

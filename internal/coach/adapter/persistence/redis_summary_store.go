package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/coach/domain/repository"
	"calisthenics-ai/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const defaultHistoryLength = 20

// RedisSummaryStore keeps each user's workout summaries in a capped Redis
// stream. The newest entry feeds the next summary as context.
type RedisSummaryStore struct {
	client    redis.UniversalClient
	prefix    string
	maxLength int64
	logger    logger.Logger
}

// NewRedisSummaryStore creates a Redis-backed summary store.
func NewRedisSummaryStore(client redis.UniversalClient, prefix string, maxLength int64, log logger.Logger) *RedisSummaryStore {
	if maxLength <= 0 {
		maxLength = defaultHistoryLength
	}
	if log == nil {
		log = logger.Default()
	}
	return &RedisSummaryStore{
		client:    client,
		prefix:    prefix,
		maxLength: maxLength,
		logger:    log.WithComponent("summary_store"),
	}
}

func (r *RedisSummaryStore) streamName(userID string) string {
	return r.prefix + userID
}

// Append adds a summary to the user's stream, trimming old entries.
func (r *RedisSummaryStore) Append(ctx context.Context, userID string, summary model.WorkoutSummary) error {
	if userID == "" {
		return errors.New("user ID is required")
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	stream := r.streamName(userID)
	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: r.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"summary":   data,
			"timestamp": time.Now().UnixNano(),
		},
	}).Result()
	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"stream": stream,
			"error":  err.Error(),
		}).Error("Failed to store summary in Redis")
		return err
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":    stream,
		"messageId": id,
	}).Debug("Summary stored")
	return nil
}

// Latest returns the newest summary of the user, or nil when the stream is
// empty or missing.
func (r *RedisSummaryStore) Latest(ctx context.Context, userID string) (*model.WorkoutSummary, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	msgs, err := r.client.XRevRangeN(ctx, r.streamName(userID), "+", "-", 1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	return parseSummary(msgs[0])
}

func parseSummary(msg redis.XMessage) (*model.WorkoutSummary, error) {
	var raw []byte
	switch v := msg.Values["summary"].(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, fmt.Errorf("summary message %s has no payload", msg.ID)
	}

	var summary model.WorkoutSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary %s: %w", msg.ID, err)
	}
	return &summary, nil
}

var _ repository.SummaryMemory = (*RedisSummaryStore)(nil)

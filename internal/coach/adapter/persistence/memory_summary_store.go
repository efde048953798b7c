package persistence

import (
	"context"
	"errors"
	"sync"

	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/coach/domain/repository"
)

// MemorySummaryStore keeps summaries in process memory. Used when Redis is
// not configured.
type MemorySummaryStore struct {
	mu        sync.RWMutex
	maxLength int
	summaries map[string][]model.WorkoutSummary
}

func NewMemorySummaryStore(maxLength int) *MemorySummaryStore {
	if maxLength <= 0 {
		maxLength = defaultHistoryLength
	}
	return &MemorySummaryStore{
		maxLength: maxLength,
		summaries: make(map[string][]model.WorkoutSummary),
	}
}

func (m *MemorySummaryStore) Append(ctx context.Context, userID string, summary model.WorkoutSummary) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.summaries[userID], summary)
	if len(history) > m.maxLength {
		history = history[len(history)-m.maxLength:]
	}
	m.summaries[userID] = history
	return nil
}

func (m *MemorySummaryStore) Latest(ctx context.Context, userID string) (*model.WorkoutSummary, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.summaries[userID]
	if len(history) == 0 {
		return nil, nil
	}
	latest := history[len(history)-1]
	return &latest, nil
}

// Len returns how many summaries are kept for the user.
func (m *MemorySummaryStore) Len(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.summaries[userID])
}

var _ repository.SummaryMemory = (*MemorySummaryStore)(nil)

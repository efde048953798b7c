package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"

	"github.com/google/uuid"
)

type entry[E any] struct {
	rec E
	at  time.Time
	seq uint64
}

// Store keeps records in process memory. It mirrors the MongoDB store and
// can be switched to unavailable to behave like a misconfigured backend.
type Store[E repository.Record[E]] struct {
	mu          sync.RWMutex
	partitions  map[string][]entry[E]
	seq         uint64
	unavailable bool
	now         func() time.Time
}

// NewStore creates an empty, available store.
func NewStore[E repository.Record[E]]() *Store[E] {
	return &Store[E]{
		partitions: make(map[string][]entry[E]),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetUnavailable makes every following call fail with ErrStoreUnavailable.
func (s *Store[E]) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

// SetClock replaces the clock used for creation times.
func (s *Store[E]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store[E]) Create(ctx context.Context, userID string, rec E) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", repository.ErrWriteFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return "", repository.ErrStoreUnavailable
	}

	s.seq++
	id := uuid.NewString()
	at := s.now()
	s.partitions[userID] = append(s.partitions[userID], entry[E]{
		rec: rec.WithMeta(id, userID, at),
		at:  at,
		seq: s.seq,
	})
	return id, nil
}

func (s *Store[E]) List(ctx context.Context, userID string) repository.ListResult[E] {
	if err := ctx.Err(); err != nil {
		return repository.Failed[E](repository.ErrUnknown)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unavailable {
		return repository.Failed[E](repository.ErrStoreUnavailable)
	}

	entries := append([]entry[E](nil), s.partitions[userID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].seq > entries[j].seq
	})

	records := make([]E, len(entries))
	for i, e := range entries {
		records[i] = e.rec
	}
	return repository.ListResult[E]{Records: records}
}

var _ repository.Store[model.WorkoutLog] = (*Store[model.WorkoutLog])(nil)

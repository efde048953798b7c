package security

import (
	"context"
	"fmt"

	"calisthenics-ai/internal/shared/utils"
	"calisthenics-ai/internal/workout/domain/repository"
)

// GuardedStore checks every call against the partition guard before it
// reaches the wrapped store. The principal is the user id carried by ctx.
type GuardedStore[E any] struct {
	next  repository.Store[E]
	guard repository.PartitionGuard
}

// Guard wraps next with guard.
func Guard[E any](next repository.Store[E], guard repository.PartitionGuard) *GuardedStore[E] {
	return &GuardedStore[E]{next: next, guard: guard}
}

func (s *GuardedStore[E]) Create(ctx context.Context, userID string, rec E) (string, error) {
	principal, _ := utils.GetUserIDFromContext(ctx)
	if err := s.guard.Allow(ctx, principal, userID); err != nil {
		return "", fmt.Errorf("%w: %w", repository.ErrWriteFailed, err)
	}
	return s.next.Create(ctx, userID, rec)
}

func (s *GuardedStore[E]) List(ctx context.Context, userID string) repository.ListResult[E] {
	principal, _ := utils.GetUserIDFromContext(ctx)
	if err := s.guard.Allow(ctx, principal, userID); err != nil {
		return repository.Failed[E](fmt.Errorf("%w: %w", repository.ErrUnknown, err))
	}
	return s.next.List(ctx, userID)
}

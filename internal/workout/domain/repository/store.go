package repository

import (
	"context"
	"time"

	apperrors "calisthenics-ai/internal/shared/errors"
)

// Store errors. Create returns ErrStoreUnavailable or ErrWriteFailed; List
// reports ErrStoreUnavailable or ErrUnknown in its result.
var (
	ErrStoreUnavailable = apperrors.NewStoreError("store unavailable: partition, collection or database not found").WithCode("store/unavailable")
	ErrWriteFailed      = apperrors.NewStoreError("store write failed").WithCode("store/write-failed")
	ErrUnknown          = apperrors.NewStoreError("store read failed").WithCode("store/unknown")
)

// Record is implemented by every entity kept in a Store. WithMeta returns a
// copy stamped with the server-assigned id, owner and creation time.
type Record[E any] interface {
	WithMeta(id, userID string, createdAt time.Time) E
}

// ListResult carries the records of one partition, newest first. Records is
// never nil; on failure it is empty and Err is set.
type ListResult[E any] struct {
	Records []E
	Err     error
}

// Ok reports whether the listing succeeded.
func (r ListResult[E]) Ok() bool { return r.Err == nil }

// Store is a write-once, per-user collection of records. Every call is scoped
// to the partition of userID.
type Store[E any] interface {
	// Create stores rec in the partition of userID and returns the new id.
	// The creation time is assigned by the store.
	Create(ctx context.Context, userID string, rec E) (string, error)

	// List returns all records of the partition ordered by creation time,
	// newest first.
	List(ctx context.Context, userID string) ListResult[E]
}

// Failed builds a ListResult for err.
func Failed[E any](err error) ListResult[E] {
	return ListResult[E]{Records: []E{}, Err: err}
}

// PartitionGuard decides whether a principal may touch a partition.
type PartitionGuard interface {
	Allow(ctx context.Context, principal, owner string) error
}

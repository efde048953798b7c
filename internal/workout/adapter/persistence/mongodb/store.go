package mongodb

import (
	"context"
	"errors"
	"fmt"

	"calisthenics-ai/internal/shared/database"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names and the fields every record carries.
const (
	WorkoutLogsCollection   = "workout_logs"
	TrainingPlansCollection = "training_plans"
	ProfilesCollection      = "user_profiles"

	ownerField = "userId"
	timeField  = "createdAt"

	codeNamespaceNotFound = 26
)

// Store implements repository.Store on one MongoDB collection shared by all
// users. Partitions are selected by the owner field.
type Store[E repository.Record[E]] struct {
	partitions *database.PartitionManager
	collection string
	logger     logger.Logger
}

// NewStore creates a store over the named collection.
func NewStore[E repository.Record[E]](partitions *database.PartitionManager, collection string, log logger.Logger) *Store[E] {
	if log == nil {
		log = logger.Default()
	}
	return &Store[E]{
		partitions: partitions,
		collection: collection,
		logger: log.WithComponent("mongo_store").WithFields(map[string]interface{}{
			"collection": collection,
		}),
	}
}

// Create inserts rec with a fresh id. createdAt is set by the server through
// $currentDate on an upsert that only ever inserts.
func (s *Store[E]) Create(ctx context.Context, userID string, rec E) (string, error) {
	if err := database.ValidatePartitionID(userID); err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrWriteFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.partitions.Timeout())
	defer cancel()

	coll, err := s.partitions.Collection(ctx, s.collection, ownerField, timeField)
	if err != nil {
		return "", s.classify(ctx, "create", err, repository.ErrWriteFailed)
	}

	doc, err := toDocument(rec, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrWriteFailed, err)
	}

	// ObjectID hex sorts by creation second and then by the process counter,
	// so records created within the same millisecond keep their order.
	id := primitive.NewObjectID().Hex()
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$setOnInsert": doc,
			"$currentDate": bson.M{timeField: true},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", s.classify(ctx, "create", err, repository.ErrWriteFailed)
	}
	if res.UpsertedCount != 1 {
		s.logger.WithContext(ctx).WithFields(map[string]interface{}{"id": id}).Error("Upsert matched an existing record")
		return "", fmt.Errorf("%w: id %s already exists", repository.ErrWriteFailed, id)
	}
	return id, nil
}

// List returns the partition newest first, ties broken by id.
func (s *Store[E]) List(ctx context.Context, userID string) repository.ListResult[E] {
	if err := database.ValidatePartitionID(userID); err != nil {
		return repository.Failed[E](fmt.Errorf("%w: %v", repository.ErrUnknown, err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.partitions.Timeout())
	defer cancel()

	coll, err := s.partitions.Collection(ctx, s.collection, ownerField, timeField)
	if err != nil {
		return repository.Failed[E](s.classify(ctx, "list", err, repository.ErrUnknown))
	}

	opts := options.Find().SetSort(bson.D{{Key: timeField, Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{ownerField: userID}, opts)
	if err != nil {
		return repository.Failed[E](s.classify(ctx, "list", err, repository.ErrUnknown))
	}
	defer cursor.Close(ctx)

	records := []E{}
	if err := cursor.All(ctx, &records); err != nil {
		return repository.Failed[E](s.classify(ctx, "list", err, repository.ErrUnknown))
	}
	return repository.ListResult[E]{Records: records}
}

// classify maps driver errors onto the store taxonomy. A database that is not
// provisioned or a missing namespace means the store is unavailable.
func (s *Store[E]) classify(ctx context.Context, op string, err, fallback error) error {
	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})

	var serverErr mongo.ServerError
	if errors.Is(err, database.ErrNotProvisioned) ||
		(errors.As(err, &serverErr) && serverErr.HasErrorCode(codeNamespaceNotFound)) {
		log.Error("Store unavailable: database or collection not found")
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}

	log.Error("Store operation failed")
	return fmt.Errorf("%w: %v", fallback, err)
}

// toDocument converts rec to a BSON document owned by userID, without the
// fields the store assigns itself.
func toDocument[E any](rec E, userID string) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	delete(doc, "_id")
	delete(doc, timeField)
	doc[ownerField] = userID
	return doc, nil
}

var (
	_ repository.Store[model.WorkoutLog]   = (*Store[model.WorkoutLog])(nil)
	_ repository.Store[model.TrainingPlan] = (*Store[model.TrainingPlan])(nil)
	_ repository.Store[model.UserProfile]  = (*Store[model.UserProfile])(nil)
)

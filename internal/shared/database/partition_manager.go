package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"calisthenics-ai/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	metadataCollection = "_metadata"
	metadataType       = "database_metadata"
	metadataVersion    = "1.0"
)

// ErrNotProvisioned is returned when the configured database carries no
// metadata marker and auto-creation is disabled.
var ErrNotProvisioned = errors.New("database is not provisioned")

// PartitionConfig holds configuration for the per-user document store.
type PartitionConfig struct {
	DatabaseName string `env:"DATABASE_NAME" envDefault:"calisthenics_ai"`

	// Auto-creation writes the metadata marker on first use.
	AutoCreateDatabase bool `env:"AUTO_CREATE_DB" envDefault:"true"`

	OperationTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
}

// PartitionManager resolves the database and collections that hold every
// user's partition. Records of all users share a collection and are keyed by
// the owner field; the manager makes sure the database is provisioned and each
// collection has its owner index before it is handed out.
type PartitionManager struct {
	client *mongo.Client
	config *PartitionConfig
	logger logger.Logger

	mu          sync.RWMutex
	db          *mongo.Database
	collections map[string]*mongo.Collection
}

// NewPartitionManager creates a new partition manager
func NewPartitionManager(client *mongo.Client, config *PartitionConfig, log logger.Logger) *PartitionManager {
	if config == nil {
		config = &PartitionConfig{
			DatabaseName:       "calisthenics_ai",
			AutoCreateDatabase: true,
			OperationTimeout:   10 * time.Second,
		}
	}
	if log == nil {
		log = logger.Default()
	}

	return &PartitionManager{
		client:      client,
		config:      config,
		logger:      log.WithComponent("partition_manager"),
		collections: make(map[string]*mongo.Collection),
	}
}

// Database returns the provisioned application database.
func (pm *PartitionManager) Database(ctx context.Context) (*mongo.Database, error) {
	if pm.client == nil {
		return nil, ErrNotProvisioned
	}

	pm.mu.RLock()
	if pm.db != nil {
		db := pm.db
		pm.mu.RUnlock()
		return db, nil
	}
	pm.mu.RUnlock()

	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.db != nil {
		return pm.db, nil
	}

	db := pm.client.Database(pm.config.DatabaseName)
	if err := pm.ensureDatabaseExists(ctx, db); err != nil {
		return nil, err
	}
	pm.db = db

	pm.logger.WithFields(map[string]interface{}{
		"database_name": pm.config.DatabaseName,
	}).Info("Database ready")

	return db, nil
}

// Handle returns the configured database without the provisioning check, for
// callers that report a missing database per operation. It is nil without a
// client.
func (pm *PartitionManager) Handle() *mongo.Database {
	if pm.client == nil {
		return nil
	}
	return pm.client.Database(pm.config.DatabaseName)
}

// Collection returns a collection with the owner/createdAt index in place.
// The index is created once per collection for the lifetime of the manager.
func (pm *PartitionManager) Collection(ctx context.Context, name, ownerField, timeField string) (*mongo.Collection, error) {
	pm.mu.RLock()
	if coll, ok := pm.collections[name]; ok {
		pm.mu.RUnlock()
		return coll, nil
	}
	pm.mu.RUnlock()

	db, err := pm.Database(ctx)
	if err != nil {
		return nil, err
	}

	coll := db.Collection(name)
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: ownerField, Value: 1}, {Key: timeField, Value: -1}},
		Options: options.Index().SetName(ownerField + "_" + timeField),
	}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		// Reads still work without the index; retry on next resolve.
		pm.logger.WithFields(map[string]interface{}{
			"collection": name,
			"error":      err.Error(),
		}).Warn("Failed to create partition index")
		return coll, nil
	}

	pm.mu.Lock()
	pm.collections[name] = coll
	pm.mu.Unlock()
	return coll, nil
}

// Timeout returns the per-operation timeout applied by the stores.
func (pm *PartitionManager) Timeout() time.Duration {
	if pm.config.OperationTimeout <= 0 {
		return 10 * time.Second
	}
	return pm.config.OperationTimeout
}

// Close forgets cached handles. The client is owned by the caller.
func (pm *PartitionManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.db = nil
	pm.collections = make(map[string]*mongo.Collection)
	pm.logger.Info("Closed partition manager")
	return nil
}

// ensureDatabaseExists looks for the metadata marker and writes it when
// auto-creation is enabled. MongoDB only materialises a database on first write.
func (pm *PartitionManager) ensureDatabaseExists(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(metadataCollection)

	err := collection.FindOne(ctx, bson.M{"type": metadataType}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to read database metadata: %w", err)
	}

	if !pm.config.AutoCreateDatabase {
		pm.logger.WithFields(map[string]interface{}{
			"database_name": db.Name(),
		}).Error("Database not provisioned and AUTO_CREATE_DB is disabled")
		return ErrNotProvisioned
	}

	_, err = collection.InsertOne(ctx, bson.M{
		"type":       metadataType,
		"created_at": time.Now().UTC(),
		"version":    metadataVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// ValidatePartitionID checks an owner id before it is used as a partition key.
func ValidatePartitionID(id string) error {
	if id == "" {
		return fmt.Errorf("partition ID cannot be empty")
	}
	if len(id) > 128 {
		return fmt.Errorf("partition ID too long (max 128 characters)")
	}
	for _, char := range id {
		if char == '$' || char == '/' || char == 0 {
			return fmt.Errorf("partition ID contains invalid characters")
		}
	}
	return nil
}

package mongodb_test

import (
	"context"
	"testing"
	"time"

	"calisthenics-ai/internal/auth/adapter/persistence/mongodb"
	"calisthenics-ai/internal/auth/domain/model"
	"calisthenics-ai/internal/auth/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newRepo(mt *mtest.T) *mongodb.MongoUserRepository {
	mt.AddMockResponses(mtest.CreateSuccessResponse()) // createIndexes
	repo, err := mongodb.NewMongoUserRepository(context.Background(), mt.DB)
	require.NoError(mt, err)
	return repo
}

func TestMongoUserRepository_CreateUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &model.User{ID: "uid-1", Email: "User@Example.com", PasswordHash: "hash"}
		require.NoError(t, repo.CreateUser(context.Background(), user))
		assert.Equal(t, "user@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate_email", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreateUser(context.Background(), &model.User{ID: "uid-2", Email: "a@b.co"})
		assert.ErrorIs(t, err, usecase.ErrEmailTaken)
	})

	mt.Run("nil_user", func(mt *mtest.T) {
		repo := newRepo(mt)
		err := repo.CreateUser(context.Background(), nil)
		assert.EqualError(t, err, "user cannot be nil")
	})
}

func TestMongoUserRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by_email", func(mt *mtest.T) {
		repo := newRepo(mt)
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "uid-1"},
			{Key: "email", Value: "user@example.com"},
			{Key: "password_hash", Value: "hash"},
			{Key: "created_at", Value: created},
		}))

		user, err := repo.GetUserByEmail(context.Background(), "USER@example.com")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.True(t, created.Equal(user.CreatedAt))
	})

	mt.Run("not_found", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.accounts", mtest.FirstBatch))

		user, err := repo.GetUserByID(context.Background(), "missing")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	mt.Run("empty_arguments", func(mt *mtest.T) {
		repo := newRepo(mt)
		_, err := repo.GetUserByEmail(context.Background(), "")
		assert.EqualError(t, err, "email cannot be empty")
		_, err = repo.GetUserByID(context.Background(), "")
		assert.EqualError(t, err, "user ID cannot be empty")
	})
}

package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/internal/repository/memory"
)

func TestUserStoreCreateAndGet(t *testing.T) {
	store := NewUserStore(memory.NewKVStore())
	ctx := context.Background()

	user := &model.User{ID: "doc_example_org", Email: "doc@example.org", PasswordHash: "hash"}
	require.NoError(t, store.Create(ctx, user))

	got, err := store.GetByID(ctx, "doc_example_org")
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestUserStoreCreateDuplicate(t *testing.T) {
	store := NewUserStore(memory.NewKVStore())
	ctx := context.Background()

	user := &model.User{ID: "doc_example_org", Email: "doc@example.org"}
	require.NoError(t, store.Create(ctx, user))

	err := store.Create(ctx, user)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUserExists))
}

func TestUserStoreGetMissing(t *testing.T) {
	store := NewUserStore(memory.NewKVStore())

	_, err := store.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUserNotFound))
}

func TestUserStoreCurrentUser(t *testing.T) {
	backend := memory.NewKVStore()
	store := NewUserStore(backend)
	ctx := context.Background()

	user := &model.User{ID: "doc_example_org", Email: "doc@example.org"}
	require.NoError(t, store.SetCurrent(ctx, user))

	_, exists, err := backend.Get(ctx, repository.CurrentUserKey)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.ClearCurrent(ctx))
	_, exists, err = backend.Get(ctx, repository.CurrentUserKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

package kv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/pkg/errors"
)

// UserStore keeps clinician accounts under user-<id> keys plus the
// current-user marker the original storage contract exposes.
type UserStore struct {
	store repository.KVStore
}

func NewUserStore(store repository.KVStore) *UserStore {
	return &UserStore{store: store}
}

// storedUser is the persisted shape. model.User hides the password
// hash from JSON on purpose; persistence must keep it.
type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func toStored(user *model.User) storedUser {
	return storedUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
}

func (u storedUser) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	_, exists, err := s.store.Get(ctx, repository.UserKey(user.ID))
	if err != nil {
		return errors.NewPersistence("failed to check existing user", err)
	}
	if exists {
		return model.ErrUserExists
	}

	payload, err := json.Marshal(toStored(user))
	if err != nil {
		return errors.NewPersistence("failed to encode user", err)
	}
	if err := s.store.Set(ctx, repository.UserKey(user.ID), string(payload)); err != nil {
		return errors.NewPersistence("failed to persist user", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	value, exists, err := s.store.Get(ctx, repository.UserKey(id))
	if err != nil {
		return nil, errors.NewPersistence("failed to read user", err)
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	var user storedUser
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, errors.NewPersistence("stored user is not decodable", err)
	}
	return user.toModel(), nil
}

func (s *UserStore) SetCurrent(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(toStored(user))
	if err != nil {
		return errors.NewPersistence("failed to encode user", err)
	}
	if err := s.store.Set(ctx, repository.CurrentUserKey, string(payload)); err != nil {
		return errors.NewPersistence("failed to persist current user", err)
	}
	return nil
}

func (s *UserStore) ClearCurrent(ctx context.Context) error {
	return s.store.Delete(ctx, repository.CurrentUserKey)
}

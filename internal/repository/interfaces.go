package repository

import (
	"context"
	"fmt"

	"github.com/sepsisai/clinical-api/internal/model"
)

// KVStore is the persistence backend contract: get/set/delete by
// string key. Values are JSON-encoded payloads.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// UserRepository stores clinician accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetCurrent(ctx context.Context, user *model.User) error
	ClearCurrent(ctx context.Context) error
}

// RecordRepository is the per-user assessment history. Sequences are
// newest-first; Append prepends and persists as one logical operation.
type RecordRepository interface {
	Append(ctx context.Context, userID string, result *model.AssessmentResult) error
	Load(ctx context.Context, userID string) ([]*model.AssessmentResult, error)
}

// Key scheme shared by every backend.
func UserKey(id string) string        { return fmt.Sprintf("user-%s", id) }
func RecordsKey(userID string) string { return fmt.Sprintf("records-%s", userID) }

const CurrentUserKey = "current-user"

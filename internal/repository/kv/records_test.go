package kv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/internal/repository/memory"
	"github.com/sepsisai/clinical-api/pkg/errors"
)

// failingKV fails selected operations on demand.
type failingKV struct {
	repository.KVStore
	failSet bool
	failGet bool
}

func (s *failingKV) Set(ctx context.Context, key, value string) error {
	if s.failSet {
		return fmt.Errorf("backend down")
	}
	return s.KVStore.Set(ctx, key, value)
}

func (s *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, fmt.Errorf("backend down")
	}
	return s.KVStore.Get(ctx, key)
}

func result(id, name string, sepsis bool, score int) *model.AssessmentResult {
	return &model.AssessmentResult{
		ID:          id,
		PatientName: name,
		IsSepsis:    sepsis,
		RiskScore:   score,
		CreatedAt:   time.Now(),
	}
}

func TestAppendAndLoad(t *testing.T) {
	store := NewRecordStore(memory.NewKVStore())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "u1", result("a", "Ana", false, 15)))
	require.NoError(t, store.Append(ctx, "u1", result("b", "Ben", true, 80)))

	records, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID, "append prepends: newest first")
	assert.Equal(t, "a", records[1].ID)
}

func TestLoadMissingKeyIsEmptyHistory(t *testing.T) {
	store := NewRecordStore(memory.NewKVStore())

	records, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoriesAreIsolatedPerUser(t *testing.T) {
	store := NewRecordStore(memory.NewKVStore())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "u1", result("a", "Ana", false, 15)))
	require.NoError(t, store.Append(ctx, "u2", result("b", "Ben", true, 80)))

	u1, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u1, 1)
	assert.Equal(t, "a", u1[0].ID)

	u2, err := store.Load(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, "b", u2[0].ID)
}

func TestAppendRollsBackOnWriteFailure(t *testing.T) {
	backend := &failingKV{KVStore: memory.NewKVStore()}
	store := NewRecordStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "u1", result("a", "Ana", false, 15)))

	backend.failSet = true
	err := store.Append(ctx, "u1", result("b", "Ben", true, 80))
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))

	// The failed append must leave no trace.
	records, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestLoadUndecodablePayload(t *testing.T) {
	backend := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, repository.RecordsKey("u1"), "{not json"))

	store := NewRecordStore(backend)
	_, err := store.Load(ctx, "u1")
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}

func TestAppendReplacesUndecodablePayload(t *testing.T) {
	backend := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, repository.RecordsKey("u1"), "{not json"))

	store := NewRecordStore(backend)
	require.NoError(t, store.Append(ctx, "u1", result("a", "Ana", false, 15)))

	// The bad value is overwritten; the history restarts from this save.
	records, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)

	fresh := NewRecordStore(backend)
	records, err = fresh.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestAppendFailsOnBackendReadError(t *testing.T) {
	backend := &failingKV{KVStore: memory.NewKVStore(), failGet: true}
	store := NewRecordStore(backend)

	err := store.Append(context.Background(), "u1", result("a", "Ana", false, 15))
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}

func TestAppendSurvivesProcessRestart(t *testing.T) {
	backend := memory.NewKVStore()
	ctx := context.Background()

	first := NewRecordStore(backend)
	require.NoError(t, first.Append(ctx, "u1", result("a", "Ana", false, 15)))

	// A fresh store over the same backend sees the persisted history.
	second := NewRecordStore(backend)
	records, err := second.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestFilterRecords(t *testing.T) {
	records := []*model.AssessmentResult{
		result("a", "Jordan Reyes", true, 100),
		result("b", "Sam Okafor", false, 15),
		result("c", "Jordan Li", false, 75),
	}

	all := FilterRecords(records, "", model.CategoryAll)
	assert.Len(t, all, 3)

	sepsis := FilterRecords(records, "", model.CategorySepsis)
	require.Len(t, sepsis, 1)
	assert.Equal(t, "a", sepsis[0].ID)

	negative := FilterRecords(records, "", model.CategoryNegative)
	assert.Len(t, negative, 2)

	highRisk := FilterRecords(records, "", model.CategoryHighRisk)
	assert.Len(t, highRisk, 2)

	byName := FilterRecords(records, "JORDAN", model.CategoryAll)
	assert.Len(t, byName, 2)

	combined := FilterRecords(records, "jordan", model.CategoryNegative)
	require.Len(t, combined, 1)
	assert.Equal(t, "c", combined[0].ID)
}

func TestFilterRecordsIsPure(t *testing.T) {
	records := []*model.AssessmentResult{
		result("a", "Jordan Reyes", true, 100),
		result("b", "Sam Okafor", false, 15),
	}

	_ = FilterRecords(records, "sam", model.CategoryAll)

	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)

	// Empty category defaults to all; filtering twice is idempotent.
	once := FilterRecords(records, "", "")
	twice := FilterRecords(once, "", "")
	assert.Equal(t, once, twice)
}

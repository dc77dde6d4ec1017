package kv

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/pkg/errors"
)

// RecordStore keeps each user's assessment history, newest-first, under
// records-<userID>. A per-user mutex serializes the load-modify-persist
// cycle so concurrent appends within this process cannot lose updates.
// Across processes the last writer wins; the deployment assumes a
// single active session per user identity.
type RecordStore struct {
	store repository.KVStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache map[string][]*model.AssessmentResult
}

func NewRecordStore(store repository.KVStore) *RecordStore {
	return &RecordStore{
		store: store,
		locks: make(map[string]*sync.Mutex),
		cache: make(map[string][]*model.AssessmentResult),
	}
}

func (s *RecordStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Append prepends result to the user's history and persists the full
// sequence. The in-memory state is only updated after the write
// succeeds, so a failed write leaves no partial state behind.
func (s *RecordStore) Append(ctx context.Context, userID string, result *model.AssessmentResult) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, corrupt, err := s.readLocked(ctx, userID)
	if err != nil {
		if !corrupt {
			return err
		}
		// An undecodable history would block every future save for
		// this user; start from empty and let this write replace the
		// bad value.
		log.Warn().Str("user_id", userID).Msg("replacing undecodable record history")
		current = nil
	}

	updated := make([]*model.AssessmentResult, 0, len(current)+1)
	updated = append(updated, result)
	updated = append(updated, current...)

	payload, err := json.Marshal(updated)
	if err != nil {
		return errors.NewPersistence("failed to encode records", err)
	}

	if err := s.store.Set(ctx, repository.RecordsKey(userID), string(payload)); err != nil {
		return errors.NewPersistence("failed to persist records", err)
	}

	s.mu.Lock()
	s.cache[userID] = updated
	s.mu.Unlock()
	return nil
}

// Load reads the persisted history. A missing key is an empty history;
// an undecodable payload is logged and reported as a persistence error
// so the caller can degrade to empty rather than crash.
func (s *RecordStore) Load(ctx context.Context, userID string) ([]*model.AssessmentResult, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.loadLocked(ctx, userID)
}

func (s *RecordStore) loadLocked(ctx context.Context, userID string) ([]*model.AssessmentResult, error) {
	records, _, err := s.readLocked(ctx, userID)
	return records, err
}

// readLocked reads and decodes the persisted history. corrupt is true
// when a payload exists but cannot be decoded, so Append can tell a
// rewritable bad value apart from a backend failure.
func (s *RecordStore) readLocked(ctx context.Context, userID string) (records []*model.AssessmentResult, corrupt bool, err error) {
	s.mu.Lock()
	cached, ok := s.cache[userID]
	s.mu.Unlock()
	if ok {
		return cached, false, nil
	}

	value, exists, err := s.store.Get(ctx, repository.RecordsKey(userID))
	if err != nil {
		return nil, false, errors.NewPersistence("failed to read records", err)
	}
	if !exists {
		return nil, false, nil
	}

	if err := json.Unmarshal([]byte(value), &records); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("stored records are not decodable")
		return nil, true, errors.NewPersistence("stored records are not decodable", err)
	}

	s.mu.Lock()
	s.cache[userID] = records
	s.mu.Unlock()
	return records, false, nil
}

// FilterRecords selects records by case-insensitive name substring and
// category. Pure: the input sequence is never mutated and order is
// preserved.
func FilterRecords(records []*model.AssessmentResult, search string, category model.RecordCategory) []*model.AssessmentResult {
	if category == "" {
		category = model.CategoryAll
	}
	search = strings.ToLower(search)

	filtered := make([]*model.AssessmentResult, 0, len(records))
	for _, r := range records {
		if search != "" && !strings.Contains(strings.ToLower(r.PatientName), search) {
			continue
		}
		switch category {
		case model.CategorySepsis:
			if !r.IsSepsis {
				continue
			}
		case model.CategoryNegative:
			if r.IsSepsis {
				continue
			}
		case model.CategoryHighRisk:
			if r.RiskScore <= model.HighRiskThreshold {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}

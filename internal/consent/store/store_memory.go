package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore stores consent records in memory for tests and single-node
// development deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	consents map[uuid.UUID]map[models.Type]*models.Record
}

// New constructs an empty in-memory consent store.
func New() *InMemoryStore {
	return &InMemoryStore{consents: make(map[uuid.UUID]map[models.Type]*models.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.consents[record.UserID]
	if !ok {
		records = make(map[models.Type]*models.Record)
		s.consents[record.UserID] = records
	}
	// Upsert: a second save for the same (user, type) keeps the original ID.
	if existing, ok := records[record.Type]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	copyRecord := *record
	records[record.Type] = &copyRecord
	return nil
}

func (s *InMemoryStore) FindByUserAndType(_ context.Context, userID uuid.UUID, consentType models.Type) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.consents[userID][consentType]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}

// ListByUser returns the user's records in the stable type order.
func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.consents[userID]

	var out []*models.Record
	for _, t := range models.AllTypes {
		if record, ok := records[t]; ok {
			copyRecord := *record
			out = append(out, &copyRecord)
		}
	}
	return out, nil
}

// DeleteByUser removes every consent row for the user. Returns the number of
// rows removed; absence is not an error so the deletion pipeline stays
// idempotent.
func (s *InMemoryStore) DeleteByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.consents[userID])
	delete(s.consents, userID)
	return n, nil
}

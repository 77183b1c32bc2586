package artifact

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// InMemoryBundleStore keeps export bundles in memory. Production deployments
// swap in an object-storage adapter behind the same interface.
type InMemoryBundleStore struct {
	mu      sync.RWMutex
	bundles map[uuid.UUID][]byte
}

// NewInMemoryBundleStore constructs an empty bundle store.
func NewInMemoryBundleStore() *InMemoryBundleStore {
	return &InMemoryBundleStore{bundles: make(map[uuid.UUID][]byte)}
}

func (s *InMemoryBundleStore) Put(_ context.Context, requestID uuid.UUID, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyPayload := make([]byte, len(payload))
	copy(copyPayload, payload)
	s.bundles[requestID] = copyPayload
	return nil
}

// Get returns the stored bundle for a request.
func (s *InMemoryBundleStore) Get(_ context.Context, requestID uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.bundles[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyPayload := make([]byte, len(payload))
	copy(copyPayload, payload)
	return copyPayload, nil
}

// Delete removes a stored bundle. Absence is not an error.
func (s *InMemoryBundleStore) Delete(_ context.Context, requestID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bundles, requestID)
	return nil
}

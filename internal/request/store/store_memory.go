package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore stores data requests in memory for tests and single-node
// development deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*models.Request
}

// New constructs an empty in-memory request store.
func New() *InMemoryStore {
	return &InMemoryStore{requests: make(map[uuid.UUID]*models.Request)}
}

func (s *InMemoryStore) Save(_ context.Context, request *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyRequest := *request
	s.requests[request.ID] = &copyRequest
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRequest := *request
	return &copyRequest, nil
}

// FindNonTerminal returns the pending or processing request of the given
// type for the user, if one exists. Backs the duplicate-request guard.
func (s *InMemoryStore) FindNonTerminal(_ context.Context, userID uuid.UUID, requestType models.Type) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, request := range s.requests {
		if request.UserID == userID && request.Type == requestType && !request.Status.IsTerminal() {
			copyRequest := *request
			return &copyRequest, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListByUser returns the user's requests, newest first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Request
	for _, request := range s.requests {
		if request.UserID == userID {
			copyRequest := *request
			out = append(out, &copyRequest)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, request *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[request.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copyRequest := *request
	s.requests[request.ID] = &copyRequest
	return nil
}

// TransitionStatus atomically moves a request from one status to another.
// Returns false when the request is no longer in the expected status, which
// callers treat as "someone else already claimed it".
func (s *InMemoryStore) TransitionStatus(_ context.Context, id uuid.UUID, from, to models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if request.Status != from {
		return false, nil
	}
	request.Status = to
	request.UpdatedAt = time.Now()
	return true, nil
}

// ListDueDeletions returns pending delete requests whose cooling-off period
// has elapsed at the given time.
func (s *InMemoryStore) ListDueDeletions(_ context.Context, now time.Time) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Request
	for _, request := range s.requests {
		if request.Type == models.TypeDelete && request.Status == models.StatusPending && request.CoolingOffElapsed(now) {
			copyRequest := *request
			out = append(out, &copyRequest)
		}
	}
	return out, nil
}

// ListExpiredDownloads returns completed export/portability requests whose
// retention window has passed and whose download link is still live.
func (s *InMemoryStore) ListExpiredDownloads(_ context.Context, now time.Time) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Request
	for _, request := range s.requests {
		if request.Type.ProducesDownload() &&
			request.Status == models.StatusCompleted &&
			request.DownloadURL != nil &&
			request.DownloadExpiresAt != nil &&
			!request.DownloadExpiresAt.After(now) {
			copyRequest := *request
			out = append(out, &copyRequest)
		}
	}
	return out, nil
}

// ClearDownloadURL nulls the download link. A pure idempotent field clear;
// clearing an already-cleared link is a no-op.
func (s *InMemoryStore) ClearDownloadURL(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	request.DownloadURL = nil
	request.UpdatedAt = time.Now()
	return nil
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryStoreSuite) newRequest(userID uuid.UUID, t models.Type, status models.Status) *models.Request {
	now := time.Now()
	return &models.Request{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      t,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	req := s.newRequest(uuid.New(), models.TypeExport, models.StatusPending)

	require.NoError(s.T(), s.store.Save(context.Background(), req))

	found, err := s.store.FindByID(context.Background(), req.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), req, found)

	// The store hands out copies, not aliases.
	found.Status = models.StatusFailed
	again, err := s.store.FindByID(context.Background(), req.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusPending, again.Status)
}

func (s *InMemoryStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFindNonTerminal() {
	userID := uuid.New()
	done := s.newRequest(userID, models.TypeExport, models.StatusCompleted)
	require.NoError(s.T(), s.store.Save(context.Background(), done))

	_, err := s.store.FindNonTerminal(context.Background(), userID, models.TypeExport)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)

	open := s.newRequest(userID, models.TypeExport, models.StatusProcessing)
	require.NoError(s.T(), s.store.Save(context.Background(), open))

	found, err := s.store.FindNonTerminal(context.Background(), userID, models.TypeExport)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), open.ID, found.ID)
}

func (s *InMemoryStoreSuite) TestListByUserNewestFirst() {
	userID := uuid.New()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		req := s.newRequest(userID, models.TypeAccess, models.StatusCompleted)
		req.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(s.T(), s.store.Save(context.Background(), req))
	}
	require.NoError(s.T(), s.store.Save(context.Background(), s.newRequest(uuid.New(), models.TypeAccess, models.StatusPending)))

	list, err := s.store.ListByUser(context.Background(), userID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	assert.True(s.T(), list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(s.T(), list[1].CreatedAt.After(list[2].CreatedAt))
}

func (s *InMemoryStoreSuite) TestUpdateMissing() {
	req := s.newRequest(uuid.New(), models.TypeExport, models.StatusPending)
	err := s.store.Update(context.Background(), req)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestTransitionStatus() {
	req := s.newRequest(uuid.New(), models.TypeDelete, models.StatusPending)
	require.NoError(s.T(), s.store.Save(context.Background(), req))

	ok, err := s.store.TransitionStatus(context.Background(), req.ID, models.StatusPending, models.StatusProcessing)
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	ok, err = s.store.TransitionStatus(context.Background(), req.ID, models.StatusPending, models.StatusProcessing)
	require.NoError(s.T(), err)
	assert.False(s.T(), ok, "second claim should lose")

	_, err = s.store.TransitionStatus(context.Background(), uuid.New(), models.StatusPending, models.StatusProcessing)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListDueDeletions() {
	now := time.Now()
	due := s.newRequest(uuid.New(), models.TypeDelete, models.StatusPending)
	dueAt := now.Add(-time.Minute)
	due.CoolingOffEndsAt = &dueAt

	waiting := s.newRequest(uuid.New(), models.TypeDelete, models.StatusPending)
	waitAt := now.Add(time.Hour)
	waiting.CoolingOffEndsAt = &waitAt

	export := s.newRequest(uuid.New(), models.TypeExport, models.StatusPending)

	for _, r := range []*models.Request{due, waiting, export} {
		require.NoError(s.T(), s.store.Save(context.Background(), r))
	}

	got, err := s.store.ListDueDeletions(context.Background(), now)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), due.ID, got[0].ID)
}

func (s *InMemoryStoreSuite) TestExpiredDownloadsAndClear() {
	now := time.Now()

	expired := s.newRequest(uuid.New(), models.TypeExport, models.StatusCompleted)
	staleURL := "/v1/data-requests/download/stale"
	staleAt := now.Add(-time.Hour)
	expired.DownloadURL = &staleURL
	expired.DownloadExpiresAt = &staleAt

	live := s.newRequest(uuid.New(), models.TypePortability, models.StatusCompleted)
	liveURL := "/v1/data-requests/download/live"
	liveAt := now.Add(time.Hour)
	live.DownloadURL = &liveURL
	live.DownloadExpiresAt = &liveAt

	for _, r := range []*models.Request{expired, live} {
		require.NoError(s.T(), s.store.Save(context.Background(), r))
	}

	got, err := s.store.ListExpiredDownloads(context.Background(), now)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), expired.ID, got[0].ID)

	require.NoError(s.T(), s.store.ClearDownloadURL(context.Background(), expired.ID))

	got, err = s.store.ListExpiredDownloads(context.Background(), now)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got)

	cleared, err := s.store.FindByID(context.Background(), expired.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), cleared.DownloadURL)
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

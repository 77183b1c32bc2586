package service_test

// Unit and lifecycle tests for the request orchestrator. Storage round-trips
// use the in-memory store; collaborator failures are injected with gomock.

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/awd2211/lnkday-privacy/internal/artifact"
	"github.com/awd2211/lnkday-privacy/internal/audit"
	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	consentservice "github.com/awd2211/lnkday-privacy/internal/consent/service"
	consentstore "github.com/awd2211/lnkday-privacy/internal/consent/store"
	"github.com/awd2211/lnkday-privacy/internal/directory"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/request/service"
	"github.com/awd2211/lnkday-privacy/internal/request/service/mocks"
	requeststore "github.com/awd2211/lnkday-privacy/internal/request/store"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

const signingKey = "test-signing-key"

type ServiceSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	now        time.Time
	requests   *requeststore.InMemoryStore
	consents   *consentstore.InMemoryStore
	users      *directory.InMemoryUserDirectory
	members    *directory.InMemoryMembershipDirectory
	bundles    *artifact.InMemoryBundleStore
	issuer     *artifact.Issuer
	auditStore *audit.InMemoryStore
	service    *service.Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.requests = requeststore.New()
	s.consents = consentstore.New()
	s.users = directory.NewUserDirectory()
	s.members = directory.NewMembershipDirectory()
	s.bundles = artifact.NewInMemoryBundleStore()
	s.auditStore = audit.NewInMemoryStore()

	issuer, err := artifact.NewIssuer(signingKey)
	s.Require().NoError(err)
	s.issuer = issuer

	registry := consentservice.NewRegistry(s.consents, nil, log,
		consentservice.WithClock(s.clock))

	svc, err := service.NewService(
		s.requests, registry, s.users, s.members, nil, issuer, s.bundles, log,
		service.WithAuditor(audit.NewPublisher(s.auditStore)),
		service.WithClock(s.clock),
		service.WithSynchronousExport(),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) clock() time.Time { return s.now }

func (s *ServiceSuite) seedUser() uuid.UUID {
	userID := uuid.New()
	s.users.Put(&service.User{
		ID:           userID,
		Email:        "dana@example.com",
		DisplayName:  "Dana",
		PasswordHash: "x",
		CreatedAt:    s.now.Add(-365 * 24 * time.Hour),
	})
	return userID
}

func (s *ServiceSuite) grantConsent(userID uuid.UUID, consentType consentmodels.Type) {
	granted := s.now
	s.Require().NoError(s.consents.Save(context.Background(), &consentmodels.Record{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          consentType,
		Granted:       true,
		GrantedAt:     &granted,
		PolicyVersion: "2025-01",
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestCreateRequest_ValidationErrors() {
	ctx := context.Background()

	s.T().Run("nil user id returns CodeBadRequest", func(t *testing.T) {
		_, err := s.service.CreateRequest(ctx, uuid.Nil, models.TypeExport, "", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.T().Run("unknown type returns CodeBadRequest", func(t *testing.T) {
		_, err := s.service.CreateRequest(ctx, uuid.New(), "erasure", "", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.T().Run("oversized reason returns CodeValidation", func(t *testing.T) {
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}
		_, err := s.service.CreateRequest(ctx, uuid.New(), models.TypeDelete, string(long), "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestCreateRequest_DuplicateGuard() {
	ctx := context.Background()
	userID := s.seedUser()

	first, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, first.Request.Status)

	_, err = s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRequest))

	// A different type is unaffected by the pending delete.
	_, err = s.service.CreateRequest(ctx, userID, models.TypeAccess, "", "")
	s.Require().NoError(err)

	// Cancelling frees the slot for a new deletion request.
	_, err = s.service.CancelDeletion(ctx, userID, first.Request.ID)
	s.Require().NoError(err)

	second, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	s.NotEqual(first.Request.ID, second.Request.ID)
}

func (s *ServiceSuite) TestCreateRequest_CoolingOffComputedOnce() {
	ctx := context.Background()
	userID := s.seedUser()

	result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "leaving", "203.0.113.7")
	s.Require().NoError(err)

	request := result.Request
	s.Require().NotNil(request.CoolingOffEndsAt)
	s.Equal(s.now.Add(30*24*time.Hour), *request.CoolingOffEndsAt)

	// Advancing the clock does not move the end date.
	s.now = s.now.Add(10 * 24 * time.Hour)
	stored, err := s.service.Get(ctx, userID, request.ID)
	s.Require().NoError(err)
	s.Equal(s.now.Add(20*24*time.Hour), *stored.CoolingOffEndsAt)

	// Non-deletion requests carry no cooling-off end.
	access, err := s.service.CreateRequest(ctx, userID, models.TypeAccess, "", "")
	s.Require().NoError(err)
	s.Nil(access.Request.CoolingOffEndsAt)
}

func (s *ServiceSuite) TestCreateRequest_NotificationFailureDoesNotFailCreation() {
	ctx := context.Background()
	userID := s.seedUser()

	notifier := mocks.NewMockNotifier(s.ctrl)
	notifier.EXPECT().
		NotifyRequestCreated(gomock.Any(), userID, models.TypeDelete, gomock.Any()).
		Return(assert.AnError)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := consentservice.NewRegistry(s.consents, nil, log)
	svc, err := service.NewService(
		s.requests, registry, s.users, s.members, notifier, s.issuer, s.bundles, log,
		service.WithClock(s.clock),
	)
	s.Require().NoError(err)

	result, err := svc.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	s.False(result.NotificationSent)
	s.Equal(models.StatusPending, result.Request.Status)
}

func (s *ServiceSuite) TestExport_EndToEnd() {
	ctx := context.Background()
	userID := s.seedUser()
	s.grantConsent(userID, consentmodels.TypeMarketingEmails)
	s.members.Put(userID, []service.Membership{
		{TeamID: uuid.New(), TeamName: "growth", Role: "admin"},
	})

	result, err := s.service.CreateRequest(ctx, userID, models.TypeExport, "", "")
	s.Require().NoError(err)

	request, err := s.service.Get(ctx, userID, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, request.Status)
	s.Require().NotNil(request.DownloadURL)
	s.Require().NotNil(request.DownloadExpiresAt)
	s.Equal(s.now.Add(7*24*time.Hour), *request.DownloadExpiresAt)
	s.Require().NotNil(request.CompletedAt)

	// The link embeds a verifiable token for this request.
	token := (*request.DownloadURL)[len("/v1/data-requests/download/"):]
	subject, err := s.issuer.Verify(token)
	s.Require().NoError(err)
	s.Equal(request.ID, subject)

	payload, err := s.bundles.Get(ctx, request.ID)
	s.Require().NoError(err)

	var bundle struct {
		Profile struct {
			Email string `json:"email"`
		} `json:"profile"`
		Memberships []service.Membership `json:"memberships"`
		Consents    []struct {
			Type    string `json:"type"`
			Granted bool   `json:"granted"`
		} `json:"consents"`
	}
	s.Require().NoError(json.Unmarshal(payload, &bundle))
	s.Equal("dana@example.com", bundle.Profile.Email)
	s.Len(bundle.Memberships, 1)
	s.Equal("growth", bundle.Memberships[0].TeamName)
	s.Require().Len(bundle.Consents, 1)
	s.Equal(string(consentmodels.TypeMarketingEmails), bundle.Consents[0].Type)
	s.True(bundle.Consents[0].Granted)
}

func (s *ServiceSuite) TestExport_MembershipOutageDegradesToEmptyList() {
	ctx := context.Background()
	userID := s.seedUser()

	memberships := mocks.NewMockMembershipDirectory(s.ctrl)
	memberships.EXPECT().
		ListMemberships(gomock.Any(), userID).
		Return(nil, assert.AnError)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := consentservice.NewRegistry(s.consents, nil, log)
	svc, err := service.NewService(
		s.requests, registry, s.users, memberships, nil, s.issuer, s.bundles, log,
		service.WithClock(s.clock),
		service.WithSynchronousExport(),
	)
	s.Require().NoError(err)

	result, err := svc.CreateRequest(ctx, userID, models.TypeExport, "", "")
	s.Require().NoError(err)

	request, err := svc.Get(ctx, userID, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, request.Status)

	payload, err := s.bundles.Get(ctx, request.ID)
	s.Require().NoError(err)

	var bundle struct {
		Memberships []service.Membership `json:"memberships"`
	}
	s.Require().NoError(json.Unmarshal(payload, &bundle))
	s.NotNil(bundle.Memberships)
	s.Empty(bundle.Memberships)
}

func (s *ServiceSuite) TestExport_ProfileFailureMarksRequestFailed() {
	ctx := context.Background()

	// No directory entry for this user: the profile read fails the pipeline.
	result, err := s.service.CreateRequest(ctx, uuid.New(), models.TypeExport, "", "")
	s.Require().NoError(err)

	request, err := s.requests.FindByID(ctx, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusFailed, request.Status)
	s.Contains(request.ProcessingNotes, "collect profile")
	s.Nil(request.DownloadURL)
}

func (s *ServiceSuite) TestRunExport_AlreadyClaimedIsNoOp() {
	ctx := context.Background()
	userID := s.seedUser()

	request := &models.Request{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      models.TypeExport,
		Status:    models.StatusProcessing,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
	s.Require().NoError(s.requests.Save(ctx, request))

	s.Require().NoError(s.service.RunExport(ctx, request.ID))

	got, err := s.requests.FindByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusProcessing, got.Status)
}

func (s *ServiceSuite) TestRunDeletion_PreconditionErrors() {
	ctx := context.Background()
	userID := s.seedUser()

	s.T().Run("unknown request returns CodeNotFound", func(t *testing.T) {
		err := s.service.RunDeletion(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.T().Run("non-deletion request returns CodeInvalidTransition", func(t *testing.T) {
		access, err := s.service.CreateRequest(ctx, userID, models.TypeAccess, "", "")
		require.NoError(t, err)
		err = s.service.RunDeletion(ctx, access.Request.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("cooling-off still active returns CodeCoolingOffActive", func(t *testing.T) {
		result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
		require.NoError(t, err)

		err = s.service.RunDeletion(ctx, result.Request.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeCoolingOffActive))

		got, err := s.requests.FindByID(ctx, result.Request.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
	})
}

func (s *ServiceSuite) TestRunDeletion_Success() {
	ctx := context.Background()
	userID := s.seedUser()
	s.grantConsent(userID, consentmodels.TypeMarketingEmails)
	s.grantConsent(userID, consentmodels.TypeAnalytics)

	result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)

	s.now = s.now.Add(30*24*time.Hour + time.Minute)
	s.Require().NoError(s.service.RunDeletion(ctx, result.Request.ID))

	request, err := s.requests.FindByID(ctx, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, request.Status)
	s.Require().NotNil(request.CompletedAt)

	_, err = s.users.Find(ctx, userID)
	s.Require().Error(err)

	remaining, err := s.consents.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Empty(remaining)

	var actions []string
	for _, event := range s.auditStore.All() {
		actions = append(actions, event.Action)
	}
	s.Contains(actions, audit.ActionUserAnonymized)
	s.Contains(actions, audit.ActionUserRemoved)
}

func (s *ServiceSuite) TestRunDeletion_IdempotentWhenUserGone() {
	ctx := context.Background()
	userID := s.seedUser()

	result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)

	s.Require().NoError(s.users.Remove(ctx, userID))

	s.now = s.now.Add(31 * 24 * time.Hour)
	s.Require().NoError(s.service.RunDeletion(ctx, result.Request.ID))

	request, err := s.requests.FindByID(ctx, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, request.Status)
	s.Equal("user already deleted", request.ProcessingNotes)
}

func (s *ServiceSuite) TestRunDeletion_PurgeFailureMarksFailed() {
	ctx := context.Background()
	userID := s.seedUser()

	consents := mocks.NewMockConsentRegistry(s.ctrl)
	consents.EXPECT().
		Purge(gomock.Any(), userID).
		Return(assert.AnError)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewService(
		s.requests, consents, s.users, s.members, nil, s.issuer, s.bundles, log,
		service.WithClock(s.clock),
	)
	s.Require().NoError(err)

	result, err := svc.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)

	s.now = s.now.Add(31 * 24 * time.Hour)
	err = svc.RunDeletion(ctx, result.Request.ID)
	s.Require().Error(err)

	request, err := s.requests.FindByID(ctx, result.Request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusFailed, request.Status)
	s.Contains(request.ProcessingNotes, "purge consents")

	// Failed is terminal: a later run refuses the request instead of retrying.
	err = svc.RunDeletion(ctx, result.Request.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func (s *ServiceSuite) TestCancelDeletion() {
	ctx := context.Background()
	userID := s.seedUser()

	result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	requestID := result.Request.ID

	s.T().Run("other user's cancel reads as not found", func(t *testing.T) {
		_, err := s.service.CancelDeletion(ctx, uuid.New(), requestID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.T().Run("cancel inside the window succeeds", func(t *testing.T) {
		s.now = s.now.Add(29 * 24 * time.Hour)
		cancelled, err := s.service.CancelDeletion(ctx, userID, requestID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, cancelled.Status)
	})

	s.T().Run("cancel of a cancelled request fails", func(t *testing.T) {
		_, err := s.service.CancelDeletion(ctx, userID, requestID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("non-deletion requests cannot be cancelled", func(t *testing.T) {
		access, err := s.service.CreateRequest(ctx, userID, models.TypeAccess, "", "")
		require.NoError(t, err)
		_, err = s.service.CancelDeletion(ctx, userID, access.Request.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})
}

func (s *ServiceSuite) TestCancelDeletion_LostClaimRace() {
	ctx := context.Background()
	userID := s.seedUser()

	result, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)

	// The sweep claims the request between the service's read and its update.
	ok, err := s.requests.TransitionStatus(ctx, result.Request.ID, models.StatusPending, models.StatusProcessing)
	s.Require().NoError(err)
	s.Require().True(ok)

	_, err = s.service.CancelDeletion(ctx, userID, result.Request.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func (s *ServiceSuite) TestOverview() {
	ctx := context.Background()
	userID := s.seedUser()
	s.grantConsent(userID, consentmodels.TypePrivacyPolicy)

	deletion, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	_, err = s.service.CreateRequest(ctx, userID, models.TypeAccess, "", "")
	s.Require().NoError(err)

	overview, err := s.service.Overview(ctx, userID)
	s.Require().NoError(err)
	s.Len(overview.Consents, 1)
	s.Len(overview.PendingRequests, 2)
	s.Require().NotNil(overview.ScheduledDeletion)
	s.Equal(*deletion.Request.CoolingOffEndsAt, *overview.ScheduledDeletion)

	// Cancelling the deletion clears the scheduled date.
	_, err = s.service.CancelDeletion(ctx, userID, deletion.Request.ID)
	s.Require().NoError(err)

	overview, err = s.service.Overview(ctx, userID)
	s.Require().NoError(err)
	s.Nil(overview.ScheduledDeletion)
	s.Len(overview.PendingRequests, 1)
}

func (s *ServiceSuite) TestList_NewestFirstAndRetained() {
	ctx := context.Background()
	userID := s.seedUser()

	first, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)
	_, err = s.service.CancelDeletion(ctx, userID, first.Request.ID)
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	second, err := s.service.CreateRequest(ctx, userID, models.TypeDelete, "", "")
	s.Require().NoError(err)

	history, err := s.service.List(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(second.Request.ID, history[0].ID)
	s.Equal(first.Request.ID, history[1].ID)
	s.Equal(models.StatusCancelled, history[1].Status)
}

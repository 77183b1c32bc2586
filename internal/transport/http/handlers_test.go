package httptransport

// Router-level tests over the full middleware stack with real memory-backed
// services, so status codes, error envelopes, and the identity header are
// exercised exactly as deployed.

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/awd2211/lnkday-privacy/internal/artifact"
	consentservice "github.com/awd2211/lnkday-privacy/internal/consent/service"
	consentstore "github.com/awd2211/lnkday-privacy/internal/consent/store"
	"github.com/awd2211/lnkday-privacy/internal/directory"
	"github.com/awd2211/lnkday-privacy/internal/request/service"
	requeststore "github.com/awd2211/lnkday-privacy/internal/request/store"
)

type HandlerSuite struct {
	suite.Suite

	now    time.Time
	users  *directory.InMemoryUserDirectory
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return s.now }
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	consents := consentstore.New()
	requests := requeststore.New()
	s.users = directory.NewUserDirectory()
	memberships := directory.NewMembershipDirectory()
	bundles := artifact.NewInMemoryBundleStore()

	issuer, err := artifact.NewIssuer("handler-test-key")
	s.Require().NoError(err)

	registry := consentservice.NewRegistry(consents, nil, log,
		consentservice.WithClock(clock),
		consentservice.WithPolicyVersion("2025-06"),
	)

	svc, err := service.NewService(
		requests, registry, s.users, memberships, nil, issuer, bundles, log,
		service.WithClock(clock),
		service.WithSynchronousExport(),
	)
	s.Require().NoError(err)

	consentHandler := NewConsentHandler(registry, log)
	requestHandler := NewRequestHandler(svc, issuer, bundles, log)
	s.router = NewRouter(consentHandler, requestHandler, nil, log)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) seedUser() uuid.UUID {
	userID := uuid.New()
	s.users.Put(&service.User{
		ID:          userID,
		Email:       "dana@example.com",
		DisplayName: "Dana",
		CreatedAt:   s.now.Add(-time.Hour),
	})
	return userID
}

func (s *HandlerSuite) do(method, path string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) TestIdentityHeaderRequired() {
	s.T().Run("missing header is rejected", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/consents", nil, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.T().Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/consents", nil)
		req.Header.Set("X-User-ID", "not-a-uuid")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *HandlerSuite) TestConsentToggleKeepsSingleRecord() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/consents", map[string]any{
		"type": "marketing_emails", "granted": true,
	}, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	granted := s.decode(w)
	s.Equal(true, granted["granted"])
	s.NotEmpty(granted["granted_at"])
	s.Equal("2025-06", granted["policy_version"])

	w = s.do(http.MethodPost, "/v1/consents", map[string]any{
		"type": "marketing_emails", "granted": false,
	}, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	revoked := s.decode(w)
	s.Equal(false, revoked["granted"])
	s.NotEmpty(revoked["revoked_at"])
	s.Nil(revoked["granted_at"])
	s.Equal(granted["id"], revoked["id"])

	w = s.do(http.MethodGet, "/v1/consents", nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	list := s.decode(w)
	s.Len(list["consents"], 1)
}

func (s *HandlerSuite) TestConsentValidation() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/consents", map[string]any{
		"type": "third_party_sharing", "granted": true,
	}, userID)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("bad_request", s.decode(w)["error"])
}

func (s *HandlerSuite) TestBulkConsentAndTypes() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/consents/bulk", map[string]any{
		"decisions": []map[string]any{
			{"type": "terms_of_service", "granted": true},
			{"type": "privacy_policy", "granted": true},
			{"type": "analytics", "granted": false},
		},
	}, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["consents"], 3)

	w = s.do(http.MethodGet, "/v1/consents/types", nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["types"], 5)
}

func (s *HandlerSuite) TestDeletionLifecycle() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/data-requests/deletion", map[string]any{
		"reason": "closing my account",
	}, userID)
	s.Require().Equal(http.StatusCreated, w.Code)
	created := s.decode(w)
	request := created["request"].(map[string]any)
	s.Equal("delete", request["type"])
	s.Equal("pending", request["status"])

	endsAt, err := time.Parse(time.RFC3339, request["cooling_off_ends_at"].(string))
	s.Require().NoError(err)
	s.Equal(s.now.Add(30*24*time.Hour), endsAt.UTC())

	// A second deletion request conflicts while the first is pending.
	w = s.do(http.MethodPost, "/v1/data-requests/deletion", nil, userID)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("duplicate_request", s.decode(w)["error"])

	// Cancel inside the window, then recreate.
	requestID := request["id"].(string)
	w = s.do(http.MethodDelete, "/v1/data-requests/"+requestID, nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("cancelled", s.decode(w)["status"])

	w = s.do(http.MethodDelete, "/v1/data-requests/"+requestID, nil, userID)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("invalid_transition", s.decode(w)["error"])

	w = s.do(http.MethodPost, "/v1/data-requests/deletion", nil, userID)
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerSuite) TestCancelForeignRequestReadsAsNotFound() {
	userID := s.seedUser()
	otherID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/data-requests/deletion", nil, userID)
	s.Require().Equal(http.StatusCreated, w.Code)
	requestID := s.decode(w)["request"].(map[string]any)["id"].(string)

	w = s.do(http.MethodDelete, "/v1/data-requests/"+requestID, nil, otherID)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestExportAndDownload() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/consents", map[string]any{
		"type": "analytics", "granted": true,
	}, userID)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/v1/data-requests/export", nil, userID)
	s.Require().Equal(http.StatusCreated, w.Code)
	requestID := s.decode(w)["request"].(map[string]any)["id"].(string)

	// The synchronous pipeline has already completed the request.
	w = s.do(http.MethodGet, "/v1/data-requests/"+requestID, nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	completed := s.decode(w)
	s.Equal("completed", completed["status"])
	downloadURL := completed["download_url"].(string)
	s.Require().NotEmpty(downloadURL)

	// The link works without the identity header; the token is the credential.
	req := httptest.NewRequest(http.MethodGet, downloadURL, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "personal-data-export.json")

	var bundle map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &bundle))
	profile := bundle["profile"].(map[string]any)
	s.Equal("dana@example.com", profile["email"])
}

func (s *HandlerSuite) TestDownloadWithBogusToken() {
	req := httptest.NewRequest(http.MethodGet, "/v1/data-requests/download/not-a-token", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestOverviewAndRights() {
	userID := s.seedUser()

	w := s.do(http.MethodPost, "/v1/consents", map[string]any{
		"type": "privacy_policy", "granted": true,
	}, userID)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/v1/data-requests/deletion", nil, userID)
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/v1/privacy/overview", nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	overview := s.decode(w)
	s.Len(overview["consents"], 1)
	s.Len(overview["pending_requests"], 1)
	s.NotNil(overview["scheduled_deletion"])

	w = s.do(http.MethodGet, "/v1/privacy/rights", nil, userID)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["rights"], 6)
}

func (s *HandlerSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", nil, uuid.Nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("ok", s.decode(w)["status"])
}

func (s *HandlerSuite) TestUnsupportedContentTypeRejected() {
	req := httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader([]byte("type=analytics")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-User-ID", uuid.New().String())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnsupportedMediaType, w.Code)
}

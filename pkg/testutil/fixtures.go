package testutil

import (
	"time"

	"github.com/google/uuid"

	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	requestmodels "github.com/awd2211/lnkday-privacy/internal/request/models"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1    uuid.UUID
	UserID2    uuid.UUID
	RequestID1 uuid.UUID
	RequestID2 uuid.UUID
}{
	UserID1:    uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	UserID2:    uuid.MustParse("22222222-2222-2222-2222-222222222222"),
	RequestID1: uuid.MustParse("aaaa0000-0000-0000-0000-000000000001"),
	RequestID2: uuid.MustParse("aaaa0000-0000-0000-0000-000000000002"),
}

// ConsentBuilder provides a fluent interface for building test consent records.
type ConsentBuilder struct {
	record *consentmodels.Record
}

// NewConsentBuilder creates a new ConsentBuilder with sensible defaults:
// a freshly granted marketing consent for UserID1.
func NewConsentBuilder() *ConsentBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &ConsentBuilder{
		record: &consentmodels.Record{
			ID:            uuid.New(),
			UserID:        TestIDs.UserID1,
			Type:          consentmodels.TypeMarketingEmails,
			Granted:       true,
			GrantedAt:     &now,
			PolicyVersion: "test-policy",
			IPAddress:     "192.0.2.10",
			UserAgent:     "Chrome 120.0 (Intel Mac OS X 14)",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func (b *ConsentBuilder) WithUserID(userID uuid.UUID) *ConsentBuilder {
	b.record.UserID = userID
	return b
}

func (b *ConsentBuilder) WithType(t consentmodels.Type) *ConsentBuilder {
	b.record.Type = t
	return b
}

// Revoked flips the record to a revocation at the given time.
func (b *ConsentBuilder) Revoked(at time.Time) *ConsentBuilder {
	b.record.Granted = false
	b.record.GrantedAt = nil
	b.record.RevokedAt = &at
	b.record.UpdatedAt = at
	return b
}

func (b *ConsentBuilder) WithPolicyVersion(version string) *ConsentBuilder {
	b.record.PolicyVersion = version
	return b
}

func (b *ConsentBuilder) Build() *consentmodels.Record {
	return b.record
}

// RequestBuilder provides a fluent interface for building test data requests.
type RequestBuilder struct {
	req *requestmodels.Request
}

// NewRequestBuilder creates a new RequestBuilder with sensible defaults:
// a pending export request for UserID1.
func NewRequestBuilder() *RequestBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &RequestBuilder{
		req: &requestmodels.Request{
			ID:        uuid.New(),
			UserID:    TestIDs.UserID1,
			Type:      requestmodels.TypeExport,
			Status:    requestmodels.StatusPending,
			IPAddress: "192.0.2.10",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *RequestBuilder) WithID(id uuid.UUID) *RequestBuilder {
	b.req.ID = id
	return b
}

func (b *RequestBuilder) WithUserID(userID uuid.UUID) *RequestBuilder {
	b.req.UserID = userID
	return b
}

func (b *RequestBuilder) WithType(t requestmodels.Type) *RequestBuilder {
	b.req.Type = t
	return b
}

func (b *RequestBuilder) WithStatus(status requestmodels.Status) *RequestBuilder {
	b.req.Status = status
	return b
}

func (b *RequestBuilder) WithReason(reason string) *RequestBuilder {
	b.req.Reason = reason
	return b
}

// Deletion turns the request into a delete request whose cooling-off window
// ends at the given time.
func (b *RequestBuilder) Deletion(coolingOffEndsAt time.Time) *RequestBuilder {
	b.req.Type = requestmodels.TypeDelete
	b.req.CoolingOffEndsAt = &coolingOffEndsAt
	return b
}

// CompletedExport marks the request completed with a live download link
// expiring at the given time.
func (b *RequestBuilder) CompletedExport(url string, expiresAt time.Time) *RequestBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	b.req.Status = requestmodels.StatusCompleted
	b.req.DownloadURL = &url
	b.req.DownloadExpiresAt = &expiresAt
	b.req.CompletedAt = &now
	return b
}

func (b *RequestBuilder) Build() *requestmodels.Request {
	return b.req
}

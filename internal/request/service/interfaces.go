package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// User is the projection of an account the lifecycle core needs: the fields
// it exports and the fields it anonymizes. The account record itself is
// owned by the user directory.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// AnonymizeFields carries the replacement values for an account's
// identifying fields. Credential material is always cleared.
type AnonymizeFields struct {
	Email       string
	DisplayName string
}

// Membership is a user's role within a team, included in export bundles.
type Membership struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Role     string    `json:"role"`
}

// UserDirectory is the external account service.
// Error Contract: Find returns sentinel.ErrNotFound (optionally wrapped)
// when the user does not exist; Anonymize and Remove do the same.
type UserDirectory interface {
	Find(ctx context.Context, userID uuid.UUID) (*User, error)
	Anonymize(ctx context.Context, userID uuid.UUID, fields AnonymizeFields) error
	Remove(ctx context.Context, userID uuid.UUID) error
}

// MembershipDirectory is the external team service, used only by the export
// pipeline. An unavailable directory yields an empty membership list, not a
// pipeline failure.
type MembershipDirectory interface {
	ListMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error)
}

// Notifier delivers user-facing notifications. Both calls are fire-and-forget:
// failures are logged by the caller and never affect the request's recorded
// state.
type Notifier interface {
	NotifyRequestCreated(ctx context.Context, userID uuid.UUID, requestType models.Type, coolingOffEnd *time.Time) error
	NotifyExportReady(ctx context.Context, userID uuid.UUID, downloadURL string, retention time.Duration) error
}

// TokenIssuer mints download tokens for export artifacts.
type TokenIssuer interface {
	Issue(requestID uuid.UUID, expiresAt time.Time) (string, error)
}

// BundleSink receives the serialized export bundle. The storage backend and
// the authenticated download endpoint in front of it are external concerns.
type BundleSink interface {
	Put(ctx context.Context, requestID uuid.UUID, payload []byte) error
}

// ConsentRegistry is the slice of the consent service the pipelines need:
// snapshots for export bundles and the hard purge during account deletion.
type ConsentRegistry interface {
	List(ctx context.Context, userID uuid.UUID) ([]*consentmodels.Record, error)
	Purge(ctx context.Context, userID uuid.UUID) error
}

// Store defines the persistence interface for data requests.
// Error Contract:
// - FindByID and FindNonTerminal return sentinel.ErrNotFound when no row exists
// - TransitionStatus returns (false, nil) when the row exists but is no
//   longer in the expected status
type Store interface {
	Save(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	FindNonTerminal(ctx context.Context, userID uuid.UUID, requestType models.Type) (*models.Request, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Request, error)
	Update(ctx context.Context, request *models.Request) error
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error)
	ListDueDeletions(ctx context.Context, now time.Time) ([]*models.Request, error)
	ListExpiredDownloads(ctx context.Context, now time.Time) ([]*models.Request, error)
	ClearDownloadURL(ctx context.Context, id uuid.UUID) error
}

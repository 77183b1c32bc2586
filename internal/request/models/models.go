package models

import (
	"time"

	"github.com/google/uuid"

	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
)

// Type identifies the data-protection right a request exercises.
type Type string

const (
	TypeExport        Type = "export"
	TypeDelete        Type = "delete"
	TypeAccess        Type = "access"
	TypeRectification Type = "rectification"
	TypeRestrict      Type = "restrict"
	TypePortability   Type = "portability"
)

// AllTypes lists every request type.
var AllTypes = []Type{
	TypeExport,
	TypeDelete,
	TypeAccess,
	TypeRectification,
	TypeRestrict,
	TypePortability,
}

// IsValid reports whether the type is a known request type.
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ProducesDownload reports whether a completed request of this type carries
// a download artifact.
func (t Type) ProducesDownload() bool {
	return t == TypeExport || t == TypePortability
}

// Status is the lifecycle state of a data request.
//
// Transitions: pending -> processing -> {completed, failed}, plus
// pending -> cancelled for deletion requests only.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// Request is a durable record of a data-subject request. Rows are never
// physically deleted; a completed deletion request survives as an audit
// artifact pointing at an anonymized or removed user.
type Request struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Type   Type
	Status Status

	// Reason is optional free text supplied by the user.
	Reason    string
	IPAddress string

	// CoolingOffEndsAt is set only for delete requests, computed once at
	// creation. The deletion sweep compares against it; it is never
	// recomputed.
	CoolingOffEndsAt *time.Time

	// DownloadURL and DownloadExpiresAt are set on completion of export and
	// portability requests. The cleanup sweep nulls DownloadURL once the
	// retention window passes.
	DownloadURL       *string
	DownloadExpiresAt *time.Time

	// ProcessingNotes holds failure diagnostics or idempotency notes.
	ProcessingNotes string

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cancellable reports whether the user may still cancel this request. Only
// pending deletion requests qualify; once a sweep claims the request the
// anonymization cannot be rolled back.
func (r *Request) Cancellable() bool {
	return r.Type == TypeDelete && r.Status == StatusPending
}

// CoolingOffElapsed reports whether the deletion gate is open at the given time.
func (r *Request) CoolingOffElapsed(now time.Time) bool {
	return r.CoolingOffEndsAt != nil && !r.CoolingOffEndsAt.After(now)
}

// Overview aggregates a user's privacy state for the dashboard.
type Overview struct {
	Consents        []*consentmodels.Record
	PendingRequests []*Request
	// ScheduledDeletion is the cooling-off end of a pending delete request,
	// if one exists.
	ScheduledDeletion *time.Time
}

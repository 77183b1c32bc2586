package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    string
	Action    string
	// Subject identifies the affected entity (consent type or request id).
	Subject string
	Detail  string
	// IPAddress is recorded pre-anonymized by callers.
	IPAddress string
}

// Audit actions for the personal-data lifecycle.
const (
	ActionConsentGranted   = "consent_granted"
	ActionConsentRevoked   = "consent_revoked"
	ActionConsentPurged    = "consent_purged"
	ActionRequestCreated   = "request_created"
	ActionRequestCancelled = "request_cancelled"
	ActionExportCompleted  = "export_completed"
	ActionExportFailed     = "export_failed"
	ActionExportExpired    = "export_expired"
	ActionUserAnonymized   = "user_anonymized"
	ActionUserRemoved      = "user_removed"
	ActionDeletionFailed   = "deletion_failed"
)

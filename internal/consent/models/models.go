package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// Type identifies a consent category a user can grant or revoke.
type Type string

const (
	TypeTermsOfService  Type = "terms_of_service"
	TypePrivacyPolicy   Type = "privacy_policy"
	TypeMarketingEmails Type = "marketing_emails"
	TypeProductUpdates  Type = "product_updates"
	TypeAnalytics       Type = "analytics"
)

// AllTypes lists every consent type in the stable order used for listings.
var AllTypes = []Type{
	TypeTermsOfService,
	TypePrivacyPolicy,
	TypeMarketingEmails,
	TypeProductUpdates,
	TypeAnalytics,
}

// RequiredTypes must be granted for the account to remain in good standing.
var RequiredTypes = []Type{
	TypeTermsOfService,
	TypePrivacyPolicy,
}

// IsValid reports whether the type is a known consent category.
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsRequired reports whether the type belongs to the required subset.
func (t Type) IsRequired() bool {
	for _, req := range RequiredTypes {
		if t == req {
			return true
		}
	}
	return false
}

// Record captures a user's decision for a specific consent type.
//
// The combination (UserID, Type) is unique: each user has at most one record
// per type, mutated in place on every toggle. GrantedAt and RevokedAt are
// mutually exclusive; exactly one is set depending on the current decision.
type Record struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Type   Type

	Granted   bool
	GrantedAt *time.Time
	RevokedAt *time.Time

	// PolicyVersion is the consent policy version in force at the time of
	// the most recent toggle.
	PolicyVersion string

	// IPAddress and UserAgent are audit metadata captured at toggle time.
	IPAddress string
	UserAgent string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decision is a single consent choice within a bulk upsert.
type Decision struct {
	Type    Type
	Granted bool
}

// Validate checks decision invariants before persistence.
func (d Decision) Validate() error {
	if !d.Type.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "invalid consent type: "+string(d.Type))
	}
	return nil
}

// TypeInfo describes a consent type for the public type listing.
type TypeInfo struct {
	Type        Type   `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// TypeDescriptions holds the static reference text per consent type.
var TypeDescriptions = map[Type]string{
	TypeTermsOfService:  "Agreement to the terms of service.",
	TypePrivacyPolicy:   "Acknowledgement of the privacy policy.",
	TypeMarketingEmails: "Receive marketing and promotional emails.",
	TypeProductUpdates:  "Receive product update announcements.",
	TypeAnalytics:       "Allow usage analytics collection.",
}

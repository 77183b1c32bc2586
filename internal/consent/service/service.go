package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"github.com/awd2211/lnkday-privacy/internal/audit"
	"github.com/awd2211/lnkday-privacy/internal/consent/metrics"
	"github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/platform/privacy"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// Store defines the persistence interface for consent records.
// Error Contract:
// - FindByUserAndType returns sentinel.ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	FindByUserAndType(ctx context.Context, userID uuid.UUID, consentType models.Type) (*models.Record, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Record, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// Option configures the Registry.
type Option func(*Registry)

const defaultPolicyVersion = "2025-07"

// Registry persists per-user consent decisions and answers consent queries.
type Registry struct {
	store         Store
	auditor       *audit.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	policyVersion string
	clock         func() time.Time
}

func NewRegistry(store Store, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		store:         store,
		auditor:       auditor,
		logger:        logger,
		policyVersion: defaultPolicyVersion,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithMetrics sets the metrics instance for the registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithPolicyVersion sets the consent policy version stamped on every upsert.
func WithPolicyVersion(version string) Option {
	return func(r *Registry) {
		if version != "" {
			r.policyVersion = version
		}
	}
}

// WithClock overrides the time source. Tests use a fixed clock.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// List returns every consent record for the user, in stable type order.
func (r *Registry) List(ctx context.Context, userID uuid.UUID) ([]*models.Record, error) {
	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id required")
	}
	records, err := r.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consents")
	}
	return records, nil
}

// Upsert records a consent decision. It creates the (user, type) row on first
// use and mutates it in place on every subsequent toggle: granting sets
// GrantedAt and clears RevokedAt, revoking sets RevokedAt. The current policy
// version is stamped either way.
func (r *Registry) Upsert(ctx context.Context, userID uuid.UUID, consentType models.Type, granted bool, ipAddress, userAgent string) (*models.Record, error) {
	start := r.clock()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveUpsertLatency(time.Since(start).Seconds())
		}
	}()

	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id required")
	}
	if !consentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid consent type: %s", consentType))
	}

	now := r.clock()
	record, err := r.store.FindByUserAndType(ctx, userID, consentType)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	if record == nil {
		record = &models.Record{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      consentType,
			CreatedAt: now,
		}
	}

	record.Granted = granted
	if granted {
		record.GrantedAt = &now
		record.RevokedAt = nil
	} else {
		record.RevokedAt = &now
		record.GrantedAt = nil
	}
	record.PolicyVersion = r.policyVersion
	record.IPAddress = ipAddress
	record.UserAgent = normalizeUserAgent(userAgent)
	record.UpdatedAt = now

	if err := r.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
	}

	action := audit.ActionConsentGranted
	if !granted {
		action = audit.ActionConsentRevoked
	}
	r.emitAudit(ctx, audit.Event{
		UserID:    userID.String(),
		Action:    action,
		Subject:   string(consentType),
		Detail:    "policy " + r.policyVersion,
		IPAddress: privacy.AnonymizeIP(ipAddress),
		Timestamp: now,
	})
	if r.metrics != nil {
		if granted {
			r.metrics.IncrementConsentsGranted(string(consentType))
		} else {
			r.metrics.IncrementConsentsRevoked(string(consentType))
		}
	}
	return record, nil
}

// BulkUpsert applies several consent decisions in one call, e.g. the signup
// consent screen. Decisions are validated up front so the batch is all-or-
// nothing with respect to input errors.
func (r *Registry) BulkUpsert(ctx context.Context, userID uuid.UUID, decisions []models.Decision, ipAddress, userAgent string) ([]*models.Record, error) {
	if len(decisions) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "decisions must not be empty")
	}
	for _, d := range decisions {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	var out []*models.Record
	for _, d := range decisions {
		record, err := r.Upsert(ctx, userID, d.Type, d.Granted, ipAddress, userAgent)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// HasRequired reports whether every required consent type is present and
// currently granted for the user.
func (r *Registry) HasRequired(ctx context.Context, userID uuid.UUID) (bool, error) {
	records, err := r.List(ctx, userID)
	if err != nil {
		return false, err
	}
	byType := make(map[models.Type]*models.Record, len(records))
	for _, record := range records {
		byType[record.Type] = record
	}
	for _, required := range models.RequiredTypes {
		record, ok := byType[required]
		if !ok || !record.Granted {
			return false, nil
		}
	}
	return true, nil
}

// Purge hard-deletes every consent row for the user. Only the deletion
// pipeline calls this; consent rows are otherwise never removed.
func (r *Registry) Purge(ctx context.Context, userID uuid.UUID) error {
	n, err := r.store.DeleteByUser(ctx, userID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge consents")
	}
	r.emitAudit(ctx, audit.Event{
		UserID:    userID.String(),
		Action:    audit.ActionConsentPurged,
		Detail:    fmt.Sprintf("%d rows", n),
		Timestamp: r.clock(),
	})
	if r.metrics != nil {
		r.metrics.AddConsentsPurged(float64(n))
	}
	return nil
}

// Types returns the static consent type listing with required flags.
func (r *Registry) Types() []models.TypeInfo {
	out := make([]models.TypeInfo, 0, len(models.AllTypes))
	for _, t := range models.AllTypes {
		out = append(out, models.TypeInfo{
			Type:        t,
			Required:    t.IsRequired(),
			Description: models.TypeDescriptions[t],
		})
	}
	return out
}

func (r *Registry) emitAudit(ctx context.Context, event audit.Event) {
	if r.auditor == nil {
		return
	}
	_ = r.auditor.Emit(ctx, event)
}

// normalizeUserAgent reduces a raw User-Agent header to a compact
// "browser/version os platform" summary so the audit column stays small and
// carries no vendor noise.
func normalizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	major := "unknown"
	if version != "" {
		if parts := strings.Split(version, "."); len(parts) > 0 && parts[0] != "" {
			major = parts[0]
		}
	}
	os := strings.ToLower(strings.TrimSpace(ua.OS()))
	if os == "" {
		os = "unknown"
	}
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	return fmt.Sprintf("%s/%s %s %s", browser, major, os, platform)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/audit"
	"github.com/awd2211/lnkday-privacy/internal/platform/privacy"
	"github.com/awd2211/lnkday-privacy/internal/request/metrics"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

const (
	defaultCoolingOffPeriod = 30 * 24 * time.Hour
	defaultExportRetention  = 7 * 24 * time.Hour

	maxReasonLength = 500
)

// Option configures the Service.
type Option func(*Service)

// Service is the lifecycle orchestrator for data-subject requests. It
// validates and creates requests, dispatches the export and deletion
// pipelines, and answers cancel/overview queries.
type Service struct {
	store       Store
	consents    ConsentRegistry
	users       UserDirectory
	memberships MembershipDirectory
	notifier    Notifier
	tokens      TokenIssuer
	bundles     BundleSink
	auditor     *audit.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger

	coolingOffPeriod time.Duration
	exportRetention  time.Duration
	downloadBaseURL  string
	clock            func() time.Time
	syncExport       bool
}

// NewService constructs the orchestrator with required collaborators.
func NewService(
	store Store,
	consents ConsentRegistry,
	users UserDirectory,
	memberships MembershipDirectory,
	notifier Notifier,
	tokens TokenIssuer,
	bundles BundleSink,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if store == nil || consents == nil || users == nil || memberships == nil || tokens == nil || bundles == nil {
		return nil, fmt.Errorf("store, consents, users, memberships, tokens, and bundles are required")
	}
	svc := &Service{
		store:            store,
		consents:         consents,
		users:            users,
		memberships:      memberships,
		notifier:         notifier,
		tokens:           tokens,
		bundles:          bundles,
		logger:           logger,
		coolingOffPeriod: defaultCoolingOffPeriod,
		exportRetention:  defaultExportRetention,
		downloadBaseURL:  "/v1/data-requests/download",
		clock:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// WithAuditor sets the audit publisher.
func WithAuditor(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCoolingOffPeriod overrides the deletion cooling-off period when
// greater than zero.
func WithCoolingOffPeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.coolingOffPeriod = d
		}
	}
}

// WithExportRetention overrides the download artifact retention window when
// greater than zero.
func WithExportRetention(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.exportRetention = d
		}
	}
}

// WithDownloadBaseURL sets the URL prefix download tokens are appended to.
func WithDownloadBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.downloadBaseURL = base
		}
	}
}

// WithClock overrides the time source. Tests use a fixed or stepped clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSynchronousExport runs the export pipeline inline during CreateRequest
// instead of in a background goroutine. Used by tests and batch tooling.
func WithSynchronousExport() Option {
	return func(s *Service) { s.syncExport = true }
}

// CreateResult reports a created request together with the outcome of the
// best-effort confirmation notification, which never fails the creation.
type CreateResult struct {
	Request          *models.Request
	NotificationSent bool
}

// CreateRequest validates and persists a new data-subject request.
//
// Validation order: duplicate non-terminal guard first, then type-specific
// payload. Deletion requests get their cooling-off end computed here, once;
// the sweep never recomputes it. Export and portability requests kick off
// the export pipeline without blocking the caller.
func (s *Service) CreateRequest(ctx context.Context, userID uuid.UUID, requestType models.Type, reason, ipAddress string) (*CreateResult, error) {
	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id required")
	}
	if !requestType.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid request type: %s", requestType))
	}
	if len(reason) > maxReasonLength {
		return nil, dErrors.New(dErrors.CodeValidation, "reason exceeds maximum length")
	}

	existing, err := s.store.FindNonTerminal(ctx, userID, requestType)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check for duplicate request")
	}
	if existing != nil {
		return nil, dErrors.New(dErrors.CodeDuplicateRequest,
			fmt.Sprintf("a %s request is already %s", requestType, existing.Status))
	}

	now := s.clock()
	request := &models.Request{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      requestType,
		Status:    models.StatusPending,
		Reason:    reason,
		IPAddress: ipAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if requestType == models.TypeDelete {
		end := now.Add(s.coolingOffPeriod)
		request.CoolingOffEndsAt = &end
	}

	if err := s.store.Save(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save request")
	}

	s.emitAudit(ctx, audit.Event{
		UserID:    userID.String(),
		Action:    audit.ActionRequestCreated,
		Subject:   request.ID.String(),
		Detail:    string(requestType),
		IPAddress: privacy.AnonymizeIP(ipAddress),
		Timestamp: now,
	})
	if s.metrics != nil {
		s.metrics.IncrementRequestsCreated(string(requestType))
	}

	notified := s.notifyCreated(ctx, request)

	if requestType.ProducesDownload() {
		s.dispatchExport(ctx, request.ID)
	}

	return &CreateResult{Request: request, NotificationSent: notified}, nil
}

// notifyCreated fires the confirmation notification. Delivery failure is
// logged and reported in the result, never raised to the caller.
func (s *Service) notifyCreated(ctx context.Context, request *models.Request) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.NotifyRequestCreated(ctx, request.UserID, request.Type, request.CoolingOffEndsAt); err != nil {
		s.logWarn(ctx, "request confirmation notification failed",
			"request_id", request.ID.String(),
			"error", err,
		)
		return false
	}
	return true
}

// dispatchExport starts the export pipeline for the request. The background
// run uses a detached context so the caller's request lifecycle does not
// cancel the pipeline mid-flight.
func (s *Service) dispatchExport(ctx context.Context, requestID uuid.UUID) {
	if s.syncExport {
		if err := s.RunExport(ctx, requestID); err != nil {
			s.logWarn(ctx, "export pipeline failed", "request_id", requestID.String(), "error", err)
		}
		return
	}
	go func() {
		if err := s.RunExport(context.Background(), requestID); err != nil {
			s.logWarn(context.Background(), "export pipeline failed", "request_id", requestID.String(), "error", err)
		}
	}()
}

// CancelDeletion cancels a pending deletion request during its cooling-off
// window. Each violated precondition returns its own error; once a sweep has
// claimed the request, cancellation is no longer offered.
func (s *Service) CancelDeletion(ctx context.Context, userID, requestID uuid.UUID) (*models.Request, error) {
	request, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	// Ownership mismatch reads as not-found so request ids cannot be probed.
	if request.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
	}
	if request.Type != models.TypeDelete {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "only deletion requests can be cancelled")
	}
	if request.Status != models.StatusPending {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("cannot cancel a %s deletion request", request.Status))
	}

	claimed, err := s.store.TransitionStatus(ctx, requestID, models.StatusPending, models.StatusCancelled)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel request")
	}
	if !claimed {
		// The deletion sweep won the race; anonymization may be underway.
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "request is no longer pending")
	}

	request.Status = models.StatusCancelled
	request.UpdatedAt = s.clock()

	s.emitAudit(ctx, audit.Event{
		UserID:    userID.String(),
		Action:    audit.ActionRequestCancelled,
		Subject:   request.ID.String(),
		Detail:    string(request.Type),
		Timestamp: s.clock(),
	})
	if s.metrics != nil {
		s.metrics.IncrementRequestsCancelled()
	}
	return request, nil
}

// List returns the user's full request history, newest first. Requests are
// retained as an audit trail and never physically deleted.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.Request, error) {
	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id required")
	}
	requests, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}
	return requests, nil
}

// Get returns a single request owned by the user.
func (s *Service) Get(ctx context.Context, userID, requestID uuid.UUID) (*models.Request, error) {
	request, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	if request.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
	}
	return request, nil
}

// Overview aggregates the user's consents, non-terminal requests, and the
// scheduled deletion date if a pending delete request exists.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*models.Overview, error) {
	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id required")
	}
	consents, err := s.consents.List(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consents")
	}
	requests, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}

	overview := &models.Overview{Consents: consents}
	for _, request := range requests {
		if request.Status.IsTerminal() {
			continue
		}
		overview.PendingRequests = append(overview.PendingRequests, request)
		if request.Type == models.TypeDelete && request.Status == models.StatusPending {
			overview.ScheduledDeletion = request.CoolingOffEndsAt
		}
	}
	return overview, nil
}

// markFailed records a pipeline failure: the request moves to failed with
// the error text preserved verbatim in ProcessingNotes. No automatic retry
// follows; the sweeps skip failed requests.
func (s *Service) markFailed(ctx context.Context, request *models.Request, cause error) {
	request.Status = models.StatusFailed
	request.ProcessingNotes = cause.Error()
	request.UpdatedAt = s.clock()
	if err := s.store.Update(ctx, request); err != nil {
		s.logError(ctx, "failed to record pipeline failure",
			"request_id", request.ID.String(),
			"cause", cause,
			"error", err,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, event)
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}

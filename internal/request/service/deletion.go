package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/audit"
	"github.com/awd2211/lnkday-privacy/internal/platform/privacy"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// RunDeletion executes the deletion pipeline for a request whose cooling-off
// period has elapsed: anonymize the account's identifying fields, purge the
// consent registry, remove the account record.
//
// Preconditions are checked in order and each violation returns its own
// error: the request must exist, be a deletion request, be pending, and be
// past its cooling-off end. A request whose user is already gone completes
// as a no-op, which makes overlapping sweep runs safe. Failures move the
// request to failed with diagnostics; no automatic retry follows.
func (s *Service) RunDeletion(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	if request.Type != models.TypeDelete {
		return dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("%s requests cannot be processed as deletions", request.Type))
	}
	if request.Status != models.StatusPending {
		return dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("deletion request is %s, not pending", request.Status))
	}
	now := s.clock()
	if !request.CoolingOffElapsed(now) {
		return dErrors.New(dErrors.CodeCoolingOffActive,
			fmt.Sprintf("cooling-off period ends at %s", request.CoolingOffEndsAt.Format(time.RFC3339)))
	}

	claimed, err := s.store.TransitionStatus(ctx, requestID, models.StatusPending, models.StatusProcessing)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim request")
	}
	if !claimed {
		s.logWarn(ctx, "deletion request already claimed", "request_id", requestID.String())
		return nil
	}
	request.Status = models.StatusProcessing

	// Idempotency short-circuit: a previous run (or a concurrent sweep on
	// another instance) already removed the user. Complete without side
	// effects rather than failing.
	if _, err := s.users.Find(ctx, request.UserID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.completeDeletion(ctx, request, "user already deleted")
		}
		err = fmt.Errorf("lookup user: %w", err)
		s.failDeletion(ctx, request, err)
		return err
	}

	pseudonym, err := privacy.PseudonymousEmail()
	if err != nil {
		err = fmt.Errorf("generate pseudonymous email: %w", err)
		s.failDeletion(ctx, request, err)
		return err
	}
	fields := AnonymizeFields{
		Email:       pseudonym,
		DisplayName: privacy.DeletedDisplayName,
	}
	if err := s.users.Anonymize(ctx, request.UserID, fields); err != nil {
		err = fmt.Errorf("anonymize user: %w", err)
		s.failDeletion(ctx, request, err)
		return err
	}
	s.emitAudit(ctx, audit.Event{
		UserID:    request.UserID.String(),
		Action:    audit.ActionUserAnonymized,
		Subject:   request.ID.String(),
		Timestamp: s.clock(),
	})

	if err := s.consents.Purge(ctx, request.UserID); err != nil {
		err = fmt.Errorf("purge consents: %w", err)
		s.failDeletion(ctx, request, err)
		return err
	}

	if err := s.users.Remove(ctx, request.UserID); err != nil {
		err = fmt.Errorf("remove user: %w", err)
		s.failDeletion(ctx, request, err)
		return err
	}
	s.emitAudit(ctx, audit.Event{
		UserID:    request.UserID.String(),
		Action:    audit.ActionUserRemoved,
		Subject:   request.ID.String(),
		Timestamp: s.clock(),
	})

	return s.completeDeletion(ctx, request, "")
}

// completeDeletion records the terminal completed state. The request row
// survives as the audit artifact for the now-removed account.
func (s *Service) completeDeletion(ctx context.Context, request *models.Request, note string) error {
	now := s.clock()
	request.Status = models.StatusCompleted
	request.ProcessingNotes = note
	request.CompletedAt = &now
	request.UpdatedAt = now
	if err := s.store.Update(ctx, request); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record deletion completion")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeletionsCompleted()
	}
	return nil
}

func (s *Service) failDeletion(ctx context.Context, request *models.Request, cause error) {
	s.markFailed(ctx, request, cause)
	s.emitAudit(ctx, audit.Event{
		UserID:    request.UserID.String(),
		Action:    audit.ActionDeletionFailed,
		Subject:   request.ID.String(),
		Detail:    cause.Error(),
		Timestamp: s.clock(),
	})
	if s.metrics != nil {
		s.metrics.IncrementDeletionsFailed()
	}
}

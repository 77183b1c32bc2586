package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/awd2211/lnkday-privacy/internal/audit"
	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// exportBundle is the serialized document delivered to the user. Business
// data owned by other services (links, analytics) is aggregated outside this
// core and is deliberately absent here.
type exportBundle struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Profile     exportProfile   `json:"profile"`
	Memberships []Membership    `json:"memberships"`
	Consents    []exportConsent `json:"consents"`
}

type exportProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type exportConsent struct {
	Type          string     `json:"type"`
	Granted       bool       `json:"granted"`
	GrantedAt     *time.Time `json:"granted_at,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	PolicyVersion string     `json:"policy_version"`
}

// RunExport executes the export pipeline for an export or portability
// request: claim, collect, serialize, store, link. A failed claim means
// another runner already took the request and is not an error. On any
// collection or serialization failure the request moves to failed with the
// cause in ProcessingNotes; it is never left in processing.
func (s *Service) RunExport(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	if !request.Type.ProducesDownload() {
		return dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("%s requests do not produce an export", request.Type))
	}

	claimed, err := s.store.TransitionStatus(ctx, requestID, models.StatusPending, models.StatusProcessing)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim request")
	}
	if !claimed {
		s.logWarn(ctx, "export request already claimed", "request_id", requestID.String())
		return nil
	}
	request.Status = models.StatusProcessing

	bundle, err := s.collectBundle(ctx, request.UserID)
	if err != nil {
		s.failExport(ctx, request, err)
		return err
	}

	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		err = fmt.Errorf("serialize export bundle: %w", err)
		s.failExport(ctx, request, err)
		return err
	}
	if err := s.bundles.Put(ctx, request.ID, payload); err != nil {
		err = fmt.Errorf("store export bundle: %w", err)
		s.failExport(ctx, request, err)
		return err
	}

	now := s.clock()
	expiresAt := now.Add(s.exportRetention)
	token, err := s.tokens.Issue(request.ID, expiresAt)
	if err != nil {
		err = fmt.Errorf("issue download token: %w", err)
		s.failExport(ctx, request, err)
		return err
	}
	downloadURL := s.downloadBaseURL + "/" + token

	request.Status = models.StatusCompleted
	request.DownloadURL = &downloadURL
	request.DownloadExpiresAt = &expiresAt
	request.CompletedAt = &now
	request.UpdatedAt = now
	if err := s.store.Update(ctx, request); err != nil {
		// The bundle exists but the request row could not be completed;
		// record the failure so the request does not sit in processing.
		err = fmt.Errorf("record export completion: %w", err)
		s.failExport(ctx, request, err)
		return err
	}

	s.emitAudit(ctx, audit.Event{
		UserID:    request.UserID.String(),
		Action:    audit.ActionExportCompleted,
		Subject:   request.ID.String(),
		Timestamp: now,
	})
	if s.metrics != nil {
		s.metrics.IncrementExportsCompleted()
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyExportReady(ctx, request.UserID, downloadURL, s.exportRetention); err != nil {
			s.logWarn(ctx, "export-ready notification failed",
				"request_id", request.ID.String(),
				"error", err,
			)
		}
	}
	return nil
}

// collectBundle gathers the user's data snapshot. Profile and consent reads
// are authoritative and fail the pipeline; the membership directory is a
// delegated collaborator whose unavailability yields an empty list instead.
func (s *Service) collectBundle(ctx context.Context, userID uuid.UUID) (*exportBundle, error) {
	var (
		user        *User
		memberships []Membership
		consents    []*consentmodels.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.users.Find(gctx, userID)
		if err != nil {
			return fmt.Errorf("collect profile: %w", err)
		}
		user = found
		return nil
	})
	g.Go(func() error {
		list, err := s.memberships.ListMemberships(gctx, userID)
		if err != nil {
			s.logWarn(gctx, "membership directory unavailable, exporting empty list",
				"user_id", userID.String(),
				"error", err,
			)
			list = nil
		}
		memberships = list
		return nil
	})
	g.Go(func() error {
		list, err := s.consents.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("collect consents: %w", err)
		}
		consents = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &exportBundle{
		GeneratedAt: s.clock(),
		Profile: exportProfile{
			ID:          user.ID.String(),
			Email:       user.Email,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt,
		},
		Memberships: memberships,
	}
	if bundle.Memberships == nil {
		bundle.Memberships = []Membership{}
	}
	for _, c := range consents {
		bundle.Consents = append(bundle.Consents, exportConsent{
			Type:          string(c.Type),
			Granted:       c.Granted,
			GrantedAt:     c.GrantedAt,
			RevokedAt:     c.RevokedAt,
			PolicyVersion: c.PolicyVersion,
		})
	}
	return bundle, nil
}

func (s *Service) failExport(ctx context.Context, request *models.Request, cause error) {
	s.markFailed(ctx, request, cause)
	s.emitAudit(ctx, audit.Event{
		UserID:    request.UserID.String(),
		Action:    audit.ActionExportFailed,
		Subject:   request.ID.String(),
		Detail:    cause.Error(),
		Timestamp: s.clock(),
	})
	if s.metrics != nil {
		s.metrics.IncrementExportsFailed()
	}
}

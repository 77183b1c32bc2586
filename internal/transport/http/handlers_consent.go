package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/platform/middleware"
	respond "github.com/awd2211/lnkday-privacy/internal/transport/http/json"
	"github.com/awd2211/lnkday-privacy/internal/transport/http/shared"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// ConsentService defines the consent operations the transport layer needs.
type ConsentService interface {
	Upsert(ctx context.Context, userID uuid.UUID, consentType consentmodels.Type, granted bool, ipAddress, userAgent string) (*consentmodels.Record, error)
	BulkUpsert(ctx context.Context, userID uuid.UUID, decisions []consentmodels.Decision, ipAddress, userAgent string) ([]*consentmodels.Record, error)
	List(ctx context.Context, userID uuid.UUID) ([]*consentmodels.Record, error)
	Types() []consentmodels.TypeInfo
}

// ConsentHandler handles consent endpoints.
type ConsentHandler struct {
	logger  *slog.Logger
	consent ConsentService
}

// NewConsentHandler creates a consent handler.
func NewConsentHandler(consent ConsentService, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{logger: logger, consent: consent}
}

// upsertConsentRequest records a single consent decision.
type upsertConsentRequest struct {
	Type    string `json:"type"`
	Granted bool   `json:"granted"`
}

// bulkConsentRequest records several decisions at once, as emitted by the
// signup form and the preferences page.
type bulkConsentRequest struct {
	Decisions []upsertConsentRequest `json:"decisions"`
}

// consentResponse is a consent record in HTTP responses.
type consentResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Granted       bool       `json:"granted"`
	GrantedAt     *time.Time `json:"granted_at,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	PolicyVersion string     `json:"policy_version"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toConsentResponse(record *consentmodels.Record) *consentResponse {
	return &consentResponse{
		ID:            record.ID.String(),
		Type:          string(record.Type),
		Granted:       record.Granted,
		GrantedAt:     record.GrantedAt,
		RevokedAt:     record.RevokedAt,
		PolicyVersion: record.PolicyVersion,
		UpdatedAt:     record.UpdatedAt,
	}
}

func toConsentResponses(records []*consentmodels.Record) []*consentResponse {
	out := make([]*consentResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toConsentResponse(record))
	}
	return out
}

func (h *ConsentHandler) handleUpsertConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req upsertConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode consent request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.consent.Upsert(ctx, userID, consentmodels.Type(req.Type), req.Granted, clientIP(r), r.UserAgent())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record consent",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, toConsentResponse(record))
}

func (h *ConsentHandler) handleBulkConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req bulkConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Decisions) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "decisions are required"))
		return
	}

	decisions := make([]consentmodels.Decision, 0, len(req.Decisions))
	for _, d := range req.Decisions {
		decisions = append(decisions, consentmodels.Decision{
			Type:    consentmodels.Type(d.Type),
			Granted: d.Granted,
		})
	}

	records, err := h.consent.BulkUpsert(ctx, userID, decisions, clientIP(r), r.UserAgent())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record consent decisions",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"consents": toConsentResponses(records),
	})
}

func (h *ConsentHandler) handleListConsents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.consent.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"consents": toConsentResponses(records),
	})
}

func (h *ConsentHandler) handleConsentTypes(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"types": h.consent.Types(),
	})
}

// clientIP strips the port from RemoteAddr. Proxy headers are resolved at the
// edge before the request reaches this service.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

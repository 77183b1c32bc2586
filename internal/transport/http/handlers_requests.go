package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/platform/middleware"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/request/service"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
	respond "github.com/awd2211/lnkday-privacy/internal/transport/http/json"
	"github.com/awd2211/lnkday-privacy/internal/transport/http/shared"
	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// RequestService defines the lifecycle operations the transport layer needs.
type RequestService interface {
	CreateRequest(ctx context.Context, userID uuid.UUID, requestType models.Type, reason, ipAddress string) (*service.CreateResult, error)
	CancelDeletion(ctx context.Context, userID, requestID uuid.UUID) (*models.Request, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Request, error)
	Get(ctx context.Context, userID, requestID uuid.UUID) (*models.Request, error)
	Overview(ctx context.Context, userID uuid.UUID) (*models.Overview, error)
}

// TokenVerifier authenticates download tokens.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// BundleSource serves stored export payloads.
type BundleSource interface {
	Get(ctx context.Context, requestID uuid.UUID) ([]byte, error)
}

// RequestHandler handles data-subject request endpoints.
type RequestHandler struct {
	logger   *slog.Logger
	requests RequestService
	verifier TokenVerifier
	bundles  BundleSource
}

// NewRequestHandler creates a data request handler.
func NewRequestHandler(requests RequestService, verifier TokenVerifier, bundles BundleSource, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		logger:   logger,
		requests: requests,
		verifier: verifier,
		bundles:  bundles,
	}
}

type createRequestBody struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// requestResponse is a data request in HTTP responses.
type requestResponse struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	Reason            string     `json:"reason,omitempty"`
	CoolingOffEndsAt  *time.Time `json:"cooling_off_ends_at,omitempty"`
	DownloadURL       *string    `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"`
	ProcessingNotes   string     `json:"processing_notes,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toRequestResponse(request *models.Request) *requestResponse {
	return &requestResponse{
		ID:                request.ID.String(),
		Type:              string(request.Type),
		Status:            string(request.Status),
		Reason:            request.Reason,
		CoolingOffEndsAt:  request.CoolingOffEndsAt,
		DownloadURL:       request.DownloadURL,
		DownloadExpiresAt: request.DownloadExpiresAt,
		ProcessingNotes:   request.ProcessingNotes,
		CompletedAt:       request.CompletedAt,
		CreatedAt:         request.CreatedAt,
	}
}

func toRequestResponses(requests []*models.Request) []*requestResponse {
	out := make([]*requestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRequestResponse(request))
	}
	return out
}

func (h *RequestHandler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.create(w, r, userID, models.Type(body.Type), body.Reason)
}

// handleCreateExport is the convenience form of POST /data-requests for the
// dashboard's "download my data" button.
func (h *RequestHandler) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, middleware.GetUserID(r.Context()), models.TypeExport, "")
}

// handleCreateDeletion is the convenience form for account deletion. The
// response carries the cooling-off end so clients can surface the date.
func (h *RequestHandler) handleCreateDeletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var body struct {
		Reason string `json:"reason,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	h.create(w, r, userID, models.TypeDelete, body.Reason)
}

func (h *RequestHandler) create(w http.ResponseWriter, r *http.Request, userID uuid.UUID, requestType models.Type, reason string) {
	ctx := r.Context()

	result, err := h.requests.CreateRequest(ctx, userID, requestType, reason, clientIP(r))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create data request",
			"request_id", middleware.GetRequestID(ctx),
			"type", string(requestType),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, map[string]any{
		"request":           toRequestResponse(result.Request),
		"notification_sent": result.NotificationSent,
	})
}

func (h *RequestHandler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := h.requests.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"requests": toRequestResponses(requests),
	})
}

func (h *RequestHandler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	request, err := h.requests.Get(ctx, middleware.GetUserID(ctx), requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, toRequestResponse(request))
}

func (h *RequestHandler) handleCancelDeletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	request, err := h.requests.CancelDeletion(ctx, middleware.GetUserID(ctx), requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to cancel deletion request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, toRequestResponse(request))
}

// handleDownload serves an export bundle. The signed token is the sole
// credential: it self-expires with the download window, and the cleanup sweep
// removes the payload afterwards, so an unexpired token for a purged bundle
// still yields 404.
func (h *RequestHandler) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := h.verifier.Verify(chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "download link has expired"))
			return
		}
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "invalid download token"))
		return
	}

	payload, err := h.bundles.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "export bundle no longer available"))
			return
		}
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load export bundle"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="personal-data-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *RequestHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.requests.Overview(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"consents":           toConsentResponses(overview.Consents),
		"pending_requests":   toRequestResponses(overview.PendingRequests),
		"scheduled_deletion": overview.ScheduledDeletion,
	})
}

// right describes a data-protection right for the static disclosure page.
type right struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Automated   bool   `json:"automated"`
}

var rightsDisclosure = []right{
	{Type: string(models.TypeExport), Name: "Data export", Description: "Receive a machine-readable copy of your personal data.", Automated: true},
	{Type: string(models.TypeDelete), Name: "Account deletion", Description: "Have your account and personal data erased after a 30 day cooling-off period.", Automated: true},
	{Type: string(models.TypeAccess), Name: "Access", Description: "Ask what personal data is held about you.", Automated: false},
	{Type: string(models.TypeRectification), Name: "Rectification", Description: "Have inaccurate personal data corrected.", Automated: false},
	{Type: string(models.TypeRestrict), Name: "Restriction", Description: "Restrict processing of your personal data.", Automated: false},
	{Type: string(models.TypePortability), Name: "Portability", Description: "Receive your data in a portable format.", Automated: true},
}

func (h *RequestHandler) handleRights(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"rights": rightsDisclosure,
	})
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/request/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// PostgresStore persists data requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed request store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, request *models.Request) error {
	if request == nil {
		return fmt.Errorf("request is required")
	}
	query := `
		INSERT INTO data_requests (id, user_id, request_type, status, reason, ip_address,
		                           cooling_off_ends_at, download_url, download_expires_at,
		                           processing_notes, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		request.ID,
		request.UserID,
		string(request.Type),
		string(request.Status),
		request.Reason,
		request.IPAddress,
		request.CoolingOffEndsAt,
		request.DownloadURL,
		request.DownloadExpiresAt,
		request.ProcessingNotes,
		request.CompletedAt,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := selectRequest + ` WHERE id = $1`
	request, err := scanRequest(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return request, nil
}

func (s *PostgresStore) FindNonTerminal(ctx context.Context, userID uuid.UUID, requestType models.Type) (*models.Request, error) {
	query := selectRequest + `
		WHERE user_id = $1 AND request_type = $2 AND status IN ('pending', 'processing')
		LIMIT 1`
	request, err := scanRequest(s.db.QueryRowContext(ctx, query, userID, string(requestType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find non-terminal request: %w", err)
	}
	return request, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Request, error) {
	query := selectRequest + ` WHERE user_id = $1 ORDER BY created_at DESC`
	return s.queryRequests(ctx, query, userID)
}

func (s *PostgresStore) Update(ctx context.Context, request *models.Request) error {
	query := `
		UPDATE data_requests SET
			status = $2,
			cooling_off_ends_at = $3,
			download_url = $4,
			download_expires_at = $5,
			processing_notes = $6,
			completed_at = $7,
			updated_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		request.ID,
		string(request.Status),
		request.CoolingOffEndsAt,
		request.DownloadURL,
		request.DownloadExpiresAt,
		request.ProcessingNotes,
		request.CompletedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// TransitionStatus performs a conditional status update. Returns false when
// the row was not in the expected status, so concurrent sweeps can treat a
// failed claim as "someone else took it" rather than an error.
func (s *PostgresStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE data_requests SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("transition request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition request status: %w", err)
	}
	if n == 0 {
		// Distinguish missing row from lost race.
		if _, findErr := s.FindByID(ctx, id); findErr != nil {
			return false, findErr
		}
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) ListDueDeletions(ctx context.Context, now time.Time) ([]*models.Request, error) {
	query := selectRequest + `
		WHERE request_type = 'delete' AND status = 'pending' AND cooling_off_ends_at <= $1`
	return s.queryRequests(ctx, query, now)
}

func (s *PostgresStore) ListExpiredDownloads(ctx context.Context, now time.Time) ([]*models.Request, error) {
	query := selectRequest + `
		WHERE request_type IN ('export', 'portability')
		  AND status = 'completed'
		  AND download_url IS NOT NULL
		  AND download_expires_at <= $1`
	return s.queryRequests(ctx, query, now)
}

func (s *PostgresStore) ClearDownloadURL(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE data_requests SET download_url = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear download url: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear download url: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryRequests(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []*models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, request)
	}
	return out, rows.Err()
}

const selectRequest = `
	SELECT id, user_id, request_type, status, reason, ip_address,
	       cooling_off_ends_at, download_url, download_expires_at,
	       processing_notes, completed_at, created_at, updated_at
	FROM data_requests`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var request models.Request
	var requestType, status string
	if err := row.Scan(
		&request.ID,
		&request.UserID,
		&requestType,
		&status,
		&request.Reason,
		&request.IPAddress,
		&request.CoolingOffEndsAt,
		&request.DownloadURL,
		&request.DownloadExpiresAt,
		&request.ProcessingNotes,
		&request.CompletedAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	request.Type = models.Type(requestType)
	request.Status = models.Status(status)
	return &request, nil
}

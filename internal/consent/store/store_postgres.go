package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// PostgresStore persists consent records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save upserts a consent record on the (user_id, consent_type) unique key.
// The stored row keeps its original id and created_at across toggles.
func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("consent record is required")
	}
	query := `
		INSERT INTO consents (id, user_id, consent_type, granted, granted_at, revoked_at,
		                      policy_version, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, consent_type) DO UPDATE SET
			granted = EXCLUDED.granted,
			granted_at = EXCLUDED.granted_at,
			revoked_at = EXCLUDED.revoked_at,
			policy_version = EXCLUDED.policy_version,
			ip_address = EXCLUDED.ip_address,
			user_agent = EXCLUDED.user_agent,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		record.ID,
		record.UserID,
		string(record.Type),
		record.Granted,
		record.GrantedAt,
		record.RevokedAt,
		record.PolicyVersion,
		record.IPAddress,
		record.UserAgent,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUserAndType(ctx context.Context, userID uuid.UUID, consentType models.Type) (*models.Record, error) {
	query := selectConsent + ` WHERE user_id = $1 AND consent_type = $2`
	record, err := scanConsent(s.db.QueryRowContext(ctx, query, userID, string(consentType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consent: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Record, error) {
	query := selectConsent + ` WHERE user_id = $1 ORDER BY consent_type`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		record, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM consents WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete consents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete consents: %w", err)
	}
	return int(n), nil
}

const selectConsent = `
	SELECT id, user_id, consent_type, granted, granted_at, revoked_at,
	       policy_version, ip_address, user_agent, created_at, updated_at
	FROM consents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row rowScanner) (*models.Record, error) {
	var record models.Record
	var consentType string
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&consentType,
		&record.Granted,
		&record.GrantedAt,
		&record.RevokedAt,
		&record.PolicyVersion,
		&record.IPAddress,
		&record.UserAgent,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	record.Type = models.Type(consentType)
	return &record, nil
}

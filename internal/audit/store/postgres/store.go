// Package postgres persists audit entries and retention policies in
// PostgreSQL. Stores are pure I/O; retention math and failure semantics
// belong to the services in package audit.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Store implements audit.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit entry store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit tables if they do not exist. Safe to call
// on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_log_entries (
			id, tenant_id, actor_id, action, entity_type, entity_id,
			detail, ip_address, user_agent, success, error_message,
			created_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var tenantID *uuid.UUID
	if entry.TenantID != nil {
		tid := uuid.UUID(*entry.TenantID)
		tenantID = &tid
	}
	// JSONB wants text; pq would encode []byte as bytea.
	var detail any
	if entry.Detail != nil {
		detail = string(entry.Detail)
	}

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		tenantID,
		entry.ActorID,
		entry.Action,
		string(entry.EntityType),
		entry.EntityID,
		detail,
		entry.IPAddress,
		entry.UserAgent,
		entry.Success,
		entry.ErrorMessage,
		entry.CreatedAt,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListByEntity(ctx context.Context, entityType domain.DataCategory, entityID string, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id, tenant_id, actor_id, action, entity_type, entity_id,
		       detail, ip_address, user_agent, success, error_message,
		       created_at, expires_at
		FROM audit_log_entries
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, string(entityType), entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry      audit.Entry
			tenantID   *uuid.UUID
			entityType string
			detail     []byte
		)
		err := rows.Scan(
			&entry.ID,
			&tenantID,
			&entry.ActorID,
			&entry.Action,
			&entityType,
			&entry.EntityID,
			&detail,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Success,
			&entry.ErrorMessage,
			&entry.CreatedAt,
			&entry.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.EntityType = domain.DataCategory(entityType)
		entry.Detail = detail
		if tenantID != nil {
			tid := domain.TenantID(*tenantID)
			entry.TenantID = &tid
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM audit_log_entries WHERE expires_at IS NOT NULL AND expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired audit entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted audit entries: %w", err)
	}
	return deleted, nil
}

// PolicyStore implements audit.PolicyStore on PostgreSQL.
type PolicyStore struct {
	db *sql.DB
}

// NewPolicyStore creates a PostgreSQL-backed retention policy store.
func NewPolicyStore(db *sql.DB) *PolicyStore {
	return &PolicyStore{db: db}
}

func (s *PolicyStore) FindActive(ctx context.Context, category domain.DataCategory) (*audit.RetentionPolicy, error) {
	query := `
		SELECT id, category, retention_days, description, legal_basis, active, created_at
		FROM retention_policies
		WHERE category = $1 AND active
	`

	var (
		policy      audit.RetentionPolicy
		categoryCol string
	)
	err := s.db.QueryRowContext(ctx, query, string(category)).Scan(
		&policy.ID,
		&categoryCol,
		&policy.Days,
		&policy.Description,
		&policy.LegalBasis,
		&policy.Active,
		&policy.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active retention policy: %w", err)
	}
	policy.Category = domain.DataCategory(categoryCol)
	return &policy, nil
}

func (s *PolicyStore) Insert(ctx context.Context, policy *audit.RetentionPolicy) error {
	query := `
		INSERT INTO retention_policies (id, category, retention_days, description, legal_basis, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		policy.ID,
		string(policy.Category),
		policy.Days,
		policy.Description,
		policy.LegalBasis,
		policy.Active,
		policy.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("active policy for %s already exists: %w", policy.Category, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert retention policy: %w", err)
	}
	return nil
}

func (s *PolicyStore) Exists(ctx context.Context, category domain.DataCategory) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM retention_policies WHERE category = $1)`,
		string(category),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check retention policy existence: %w", err)
	}
	return exists, nil
}

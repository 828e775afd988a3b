package audit

import (
	"context"
	"time"

	"clinicore/pkg/domain"
)

// Stores are interface-driven so the engine can run against Postgres in
// production and the in-memory implementations in tests and dev mode.

// Store persists audit log entries. Append is the only write; entries are
// immutable after that.
type Store interface {
	Append(ctx context.Context, entry Entry) error

	// ListByEntity returns entries matching the exact entity type and id,
	// ordered ascending by creation time, capped at limit.
	ListByEntity(ctx context.Context, entityType domain.DataCategory, entityID string, limit int) ([]Entry, error)

	// DeleteExpired removes every entry whose expiry is non-null and strictly
	// before now, returning the number of rows deleted. Entries with a null
	// expiry are never touched.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PolicyStore persists retention policies. At most one active policy may
// exist per category; implementations enforce this and return
// sentinel.ErrConflict on violation.
type PolicyStore interface {
	// FindActive returns the active policy for the category, or
	// sentinel.ErrNotFound when none exists.
	FindActive(ctx context.Context, category domain.DataCategory) (*RetentionPolicy, error)

	Insert(ctx context.Context, policy *RetentionPolicy) error

	// Exists reports whether any policy (active or not) exists for the
	// category. The seeder checks this before inserting defaults.
	Exists(ctx context.Context, category domain.DataCategory) (bool, error)
}

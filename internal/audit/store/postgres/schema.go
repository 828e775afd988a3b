package postgres

// Schema contains the SQL statements for the two audit tables. The partial
// unique index enforces at most one active retention policy per category, so
// "first matching policy wins" ambiguity cannot arise.
const Schema = `
CREATE TABLE IF NOT EXISTS retention_policies (
    id UUID PRIMARY KEY,
    category TEXT NOT NULL,
    retention_days INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    legal_basis TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS retention_policies_one_active
    ON retention_policies (category) WHERE active;

CREATE TABLE IF NOT EXISTS audit_log_entries (
    id UUID PRIMARY KEY,
    tenant_id UUID,
    actor_id TEXT NOT NULL,
    action TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL DEFAULT '',
    detail JSONB,
    ip_address TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    success BOOLEAN NOT NULL DEFAULT TRUE,
    error_message TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS audit_log_entries_entity
    ON audit_log_entries (entity_type, entity_id, created_at);

CREATE INDEX IF NOT EXISTS audit_log_entries_expiry
    ON audit_log_entries (expires_at) WHERE expires_at IS NOT NULL;
`

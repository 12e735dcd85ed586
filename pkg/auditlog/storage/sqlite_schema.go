package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit log schema.
const Schema = `
-- Audit records table
CREATE TABLE IF NOT EXISTS audit_logs (
    log_id TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    session_id TEXT,

    -- User identity
    user_id TEXT,
    user_role TEXT,

    -- Event classification
    event_type TEXT NOT NULL,
    component TEXT NOT NULL,

    -- Sanitized payloads (JSON)
    activity_details TEXT,
    input_data TEXT,
    output_data TEXT,

    -- Governance outcome
    compliance_status TEXT NOT NULL,
    risk_level TEXT NOT NULL,

    -- Request metadata
    ip_address TEXT,
    user_agent TEXT,
    request_id TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_logs(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_event_type ON audit_logs(event_type);
CREATE INDEX IF NOT EXISTS idx_audit_risk_level ON audit_logs(risk_level);
CREATE INDEX IF NOT EXISTS idx_audit_compliance_status ON audit_logs(compliance_status);
CREATE INDEX IF NOT EXISTS idx_audit_session_id ON audit_logs(session_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

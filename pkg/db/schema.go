package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the local store.
	// The store only keeps what the web client kept in localStorage.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS journey_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS session_kv (
    key VARCHAR(64) PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)

package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the record store schema.
const Schema = `
-- Raw records; fields is a JSON object in field order
CREATE TABLE IF NOT EXISTS records (
    id TEXT NOT NULL,
    content_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    fields TEXT NOT NULL,
    PRIMARY KEY (content_type, id)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_type_created ON records(content_type, created_at, id);
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

const upsertRecord = `
INSERT INTO records (id, content_type, created_at, fields)
VALUES (?, ?, ?, ?)
ON CONFLICT(content_type, id) DO UPDATE SET
    created_at = excluded.created_at,
    fields = excluded.fields;
`

package storage

const schema = `
-- A key-value table holds serialized JSON documents. The progress
-- aggregate lives under a single fixed key.
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`

package store

// Column types are chosen to be valid in both SQLite and PostgreSQL.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    target_amount        DOUBLE PRECISION NOT NULL,
    current_amount       DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_date          TEXT NOT NULL,
    category             TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    goal_id              TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
    amount               DOUBLE PRECISION NOT NULL,
    contributed_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT NOT NULL,
    file_path            TEXT NOT NULL,
    tx_date              TEXT NOT NULL,
    amount               DOUBLE PRECISION NOT NULL,
    kind                 TEXT NOT NULL,
    category             TEXT NOT NULL,
    merchant             TEXT NOT NULL,
    notes                TEXT,
    recurring            INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (file_path, id)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             BIGINT NOT NULL,
    size_bytes           BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contributions_goal ON contributions(goal_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(tx_date);
`

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS state (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    data                 TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    tick                 INTEGER NOT NULL,
    delta                REAL NOT NULL,
    capital              REAL NOT NULL,
    event                TEXT,
    recorded_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_tick ON journal(tick);
`

package store

// Schema creates the export tables. A run is one split of one ledger; its
// periods and amounts are deleted with it.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,              -- ledger file
    interval TEXT NOT NULL,            -- totals, month, ...
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS periods (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    date TEXT NOT NULL,                -- YYYY-MM-DD, end of the period
    narration TEXT,                    -- last transaction of the period
    synthetic INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, idx)
);

CREATE TABLE IF NOT EXISTS amounts (
    run_id INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    category TEXT NOT NULL,            -- contributions, gains_realized, ...
    currency TEXT NOT NULL,
    number TEXT NOT NULL,              -- exact decimal
    cost TEXT,                         -- lot cost, e.g. {10 USD, 2020-01-02}
    FOREIGN KEY (run_id, idx) REFERENCES periods(run_id, idx) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_amounts_category
    ON amounts(run_id, category);
`

package store

// Schema is the DDL for the three tables. Applied by cmd/migrate; safe to
// re-run.
const Schema = `
CREATE TABLE IF NOT EXISTS requests (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL,
    phone_number TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_requests_claim
    ON requests (account_id, status, created_at);

CREATE TABLE IF NOT EXISTS results (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL,
    request_id BIGINT NOT NULL REFERENCES requests (id),
    status TEXT NOT NULL,
    message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL,
    phone_number VARCHAR(14) NOT NULL,
    name VARCHAR(50) NOT NULL,
    date_added TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_account_name
    ON contacts (account_id, lower(name));
`

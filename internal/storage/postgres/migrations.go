package postgres

import "context"

const schema = `CREATE TABLE IF NOT EXISTS receipts (
	seq        BIGSERIAL PRIMARY KEY,
	tx_id      UUID NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	caller     TEXT NOT NULL,
	value      NUMERIC(78,0) NOT NULL,
	gas_used   BIGINT NOT NULL,
	gas_price  NUMERIC(78,0) NOT NULL,
	fee        NUMERIC(78,0) NOT NULL,
	status     TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

// Migrate creates the receipts table if it does not exist yet.
func (p *PostgresReceiptJournal) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

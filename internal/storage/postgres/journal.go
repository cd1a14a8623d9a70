package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

type PostgresReceiptJournal struct {
	db *sql.DB
}

func NewPostgresReceiptJournal(db *sql.DB) *PostgresReceiptJournal {
	return &PostgresReceiptJournal{
		db: db,
	}
}

func (p *PostgresReceiptJournal) Record(ctx context.Context, r models.Receipt) error {
	const query = `INSERT INTO receipts (tx_id, kind, caller, value, gas_used, gas_price, fee, status, reason, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := p.db.ExecContext(ctx, query,
		r.TxID, string(r.Kind), r.Caller, numeric(r.Value), int64(r.GasUsed),
		numeric(r.GasPrice), numeric(r.Fee), string(r.Status), r.Reason, r.CreatedAt)
	return err
}

func (p *PostgresReceiptJournal) Receipts(ctx context.Context) ([]models.Receipt, error) {
	const query = `SELECT tx_id, kind, caller, value::text, gas_used, gas_price::text, fee::text, status, reason, created_at
	FROM receipts ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var (
			r                    models.Receipt
			kind, status         string
			value, gasPrice, fee string
			gasUsed              int64
		)
		if err := rows.Scan(&r.TxID, &kind, &r.Caller, &value, &gasUsed, &gasPrice, &fee, &status, &r.Reason, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Kind = models.CallKind(kind)
		r.Status = models.CallStatus(status)
		r.GasUsed = uint64(gasUsed)
		if r.Value, err = parseNumeric(value); err != nil {
			return nil, err
		}
		if r.GasPrice, err = parseNumeric(gasPrice); err != nil {
			return nil, err
		}
		if r.Fee, err = parseNumeric(fee); err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}

func numeric(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric %q", s)
	}
	return v, nil
}

var _ interfaces.ReceiptJournal = (*PostgresReceiptJournal)(nil)

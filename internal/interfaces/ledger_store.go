package interfaces

import (
	"context"
	"math/big"
)

// LedgerStore is the backing storage for contributor records and the funder
// sequence. Every method call counts as one storage access.
type LedgerStore interface {
	AmountFunded(ctx context.Context, funder string) (*big.Int, error)
	FunderCount(ctx context.Context) (int, error)
	FunderAt(ctx context.Context, index int) (string, error)
	// Funders returns a copy of the whole funder sequence in one read.
	Funders(ctx context.Context) ([]string, error)

	RecordFunding(ctx context.Context, funder string, amount *big.Int) error
	// ResetFunders zeroes the record of every given identity and empties the
	// funder sequence.
	ResetFunders(ctx context.Context, funders []string) error
}

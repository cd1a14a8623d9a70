package interfaces

import (
	"context"
	"math/big"

	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

// Custody holds the native balances of every identity, the ledger's own
// custody account included.
type Custody interface {
	BalanceOf(ctx context.Context, identity string) (*big.Int, error)
	// Settle applies all movements or none of them.
	Settle(ctx context.Context, movements []models.Movement) error
	// Revert undoes movements returned by a successful Settle. Recipients
	// that reject incoming value still get their funds back.
	Revert(ctx context.Context, settled []models.Movement) error
	GasPrice() *big.Int
	// FeeRecipient is the identity gas fees are paid to.
	FeeRecipient() string
}

package interfaces

import (
	"context"
	"math/big"
)

// PriceFeed reports the price of the native unit in the reference currency
// as a fixed-point integer with Decimals places.
type PriceFeed interface {
	Address() string
	Decimals(ctx context.Context) (uint8, error)
	LatestAnswer(ctx context.Context) (*big.Int, error)
}

// Package priceconverter converts native amounts into reference-currency
// amounts using a price feed.
package priceconverter

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

var ErrOracleUnavailable = errors.New("price oracle unavailable")

var oneNative = new(big.Int).Exp(big.NewInt(10), big.NewInt(units.Decimals), nil)

type Converter struct {
	feed interfaces.PriceFeed
}

func New(feed interfaces.PriceFeed) *Converter {
	return &Converter{feed: feed}
}

func (c *Converter) Feed() interfaces.PriceFeed {
	return c.feed
}

// Price returns the feed's latest answer rescaled to 18 decimals.
func (c *Converter) Price(ctx context.Context) (*big.Int, error) {
	answer, err := c.feed.LatestAnswer(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if answer == nil || answer.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive answer %v", ErrOracleUnavailable, answer)
	}
	decimals, err := c.feed.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	price := new(big.Int).Set(answer)
	switch d := int64(decimals); {
	case d < units.Decimals:
		price.Mul(price, pow10(units.Decimals-d))
	case d > units.Decimals:
		price.Quo(price, pow10(d-units.Decimals))
	}
	return price, nil
}

// GetConversionRate returns nativeAmount expressed in the reference currency,
// with 18 decimals.
func (c *Converter) GetConversionRate(ctx context.Context, nativeAmount *big.Int) (*big.Int, error) {
	price, err := c.Price(ctx)
	if err != nil {
		return nil, err
	}
	out := new(big.Int).Mul(price, nativeAmount)
	return out.Quo(out, oneNative), nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

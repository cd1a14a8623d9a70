package priceconverter

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

type stubFeed struct {
	answer   *big.Int
	decimals uint8
	err      error
}

func (s stubFeed) Address() string { return "stub" }

func (s stubFeed) Decimals(context.Context) (uint8, error) { return s.decimals, nil }

func (s stubFeed) LatestAnswer(context.Context) (*big.Int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func TestGetConversionRate(t *testing.T) {
	ctx := context.Background()

	t.Run("eight decimal feed", func(t *testing.T) {
		c := New(stubFeed{answer: big.NewInt(2000_00000000), decimals: 8})
		usd, err := c.GetConversionRate(ctx, units.MustParseEther("0.1"))
		require.NoError(t, err)
		assert.Equal(t, units.MustParseEther("200").String(), usd.String())
	})

	t.Run("feed already at native precision", func(t *testing.T) {
		c := New(stubFeed{answer: units.MustParseEther("1500"), decimals: 18})
		usd, err := c.GetConversionRate(ctx, units.MustParseEther("2"))
		require.NoError(t, err)
		assert.Equal(t, units.MustParseEther("3000").String(), usd.String())
	})

	t.Run("feed with more decimals than native", func(t *testing.T) {
		answer, _ := new(big.Int).SetString("3000000000000000000000", 10) // 3.0 with 21 decimals
		c := New(stubFeed{answer: answer, decimals: 21})
		usd, err := c.GetConversionRate(ctx, units.MustParseEther("1"))
		require.NoError(t, err)
		assert.Equal(t, units.MustParseEther("3").String(), usd.String())
	})

	t.Run("large amounts do not overflow", func(t *testing.T) {
		c := New(stubFeed{answer: big.NewInt(2000_00000000), decimals: 8})
		huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457", 10)
		usd, err := c.GetConversionRate(ctx, huge)
		require.NoError(t, err)
		want := new(big.Int).Mul(huge, big.NewInt(2000))
		assert.Equal(t, want.String(), usd.String())
	})

	t.Run("zero amount converts to zero", func(t *testing.T) {
		c := New(stubFeed{answer: big.NewInt(2000_00000000), decimals: 8})
		usd, err := c.GetConversionRate(ctx, big.NewInt(0))
		require.NoError(t, err)
		assert.Zero(t, usd.Sign())
	})
}

func TestGetConversionRateOracleFailures(t *testing.T) {
	ctx := context.Background()

	for name, feed := range map[string]stubFeed{
		"read error":      {err: errors.New("connection refused"), decimals: 8},
		"negative answer": {answer: big.NewInt(-1), decimals: 8},
		"zero answer":     {answer: big.NewInt(0), decimals: 8},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(feed).GetConversionRate(ctx, big.NewInt(1))
			assert.ErrorIs(t, err, ErrOracleUnavailable)
		})
	}
}

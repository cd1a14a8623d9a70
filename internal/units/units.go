// Package units converts between 18-decimal integer amounts and their
// human-readable decimal form.
package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the precision of the native unit and of reference amounts.
const Decimals = 18

// ParseEther turns a decimal ether string such as "0.1" into wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q must not be negative", s)
	}
	wei := d.Shift(Decimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, Decimals)
	}
	return wei.BigInt(), nil
}

// MustParseEther is ParseEther for constants and tests.
func MustParseEther(s string) *big.Int {
	wei, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return wei
}

// FormatEther renders wei as an ether decimal string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -Decimals).String()
}

// FormatReference renders an 18-decimal reference amount with two places.
func FormatReference(amount *big.Int) string {
	if amount == nil {
		return "0.00"
	}
	return decimal.NewFromBigInt(amount, -Decimals).StringFixed(2)
}

// ScaleInteger turns a whole-or-fractional decimal string such as "50" into an
// integer with the given number of decimals.
func ScaleInteger(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%q has more than %d decimal places", s, decimals)
	}
	return scaled.BigInt(), nil
}

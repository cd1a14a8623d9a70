package ledger

import (
	"errors"
	"fmt"

	"github.com/sheikh-saqib/funding-ledger/internal/priceconverter"
)

var (
	ErrInsufficientContribution = errors.New("you need to spend more ETH")
	ErrNotOwner                 = errors.New("not owner")
	ErrTransferFailed           = errors.New("transfer failed")
	ErrIndexOutOfRange          = errors.New("funder index out of range")
	ErrOracleUnavailable        = priceconverter.ErrOracleUnavailable

	// ErrNoFunders is returned by GetFunder while the funder sequence is empty.
	ErrNoFunders = fmt.Errorf("%w: no funders", ErrIndexOutOfRange)
)

package models

import (
	"math/big"
	"time"
)

type CallKind string

const (
	CallFund          CallKind = "fund"
	CallWithdraw      CallKind = "withdraw"
	CallCheapWithdraw CallKind = "cheap_withdraw"
)

type CallStatus string

const (
	StatusSucceeded CallStatus = "succeeded"
	StatusReverted  CallStatus = "reverted"
)

// Receipt records the outcome of one mutating call on the ledger
type Receipt struct {
	TxID      string
	Kind      CallKind
	Caller    string
	Value     *big.Int // native units attached to or paid out by the call
	GasUsed   uint64
	GasPrice  *big.Int
	Fee       *big.Int // GasUsed * GasPrice, zero for reverted calls
	Status    CallStatus
	Reason    string // revert reason, empty on success
	CreatedAt time.Time
}

func (r Receipt) Succeeded() bool {
	return r.Status == StatusSucceeded
}

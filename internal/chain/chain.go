// Package chain simulates the execution environment the ledger runs in:
// native balances per identity, atomic settlement of value movements, gas
// pricing, and one-call-at-a-time execution.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrRecipientRejected   = errors.New("recipient rejected transfer")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// Coinbase collects gas fees.
const Coinbase = "coinbase"

type Chain struct {
	execMu sync.Mutex // held for the whole of a call run through Exec

	mu        sync.Mutex
	balances  map[string]*big.Int
	rejecting map[string]bool
	gasPrice  *big.Int
}

func New(gasPrice *big.Int) *Chain {
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	return &Chain{
		balances:  make(map[string]*big.Int),
		rejecting: make(map[string]bool),
		gasPrice:  new(big.Int).Set(gasPrice),
	}
}

// Exec runs fn to completion before any other call passed to Exec starts.
func (c *Chain) Exec(fn func() error) error {
	c.execMu.Lock()
	defer c.execMu.Unlock()
	return fn()
}

// Mint credits identity out of thin air. Used for genesis and dev faucets.
func (c *Chain) Mint(identity string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[identity] = new(big.Int).Add(c.balanceLocked(identity), amount)
	return nil
}

// RejectIncoming makes every transfer to identity fail while reject is set.
func (c *Chain) RejectIncoming(identity string, reject bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reject {
		c.rejecting[identity] = true
		return
	}
	delete(c.rejecting, identity)
}

func (c *Chain) BalanceOf(ctx context.Context, identity string) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.balanceLocked(identity)), nil
}

func (c *Chain) GasPrice() *big.Int {
	return new(big.Int).Set(c.gasPrice)
}

func (c *Chain) FeeRecipient() string {
	return Coinbase
}

// Settle applies the movements in order against a scratch copy of the
// touched balances and commits only if every movement succeeds.
func (c *Chain) Settle(ctx context.Context, movements []models.Movement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(movements, true)
}

// Revert applies the inverse of settled, last movement first. Rejecting
// recipients are not consulted: the value is going back where it came from.
func (c *Chain) Revert(ctx context.Context, settled []models.Movement) error {
	reverse := make([]models.Movement, 0, len(settled))
	for i := len(settled) - 1; i >= 0; i-- {
		m := settled[i]
		reverse = append(reverse, models.Movement{From: m.To, To: m.From, Amount: m.Amount})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(reverse, false)
}

func (c *Chain) applyLocked(movements []models.Movement, checkRejecting bool) error {
	scratch := make(map[string]*big.Int)
	get := func(id string) *big.Int {
		if b, ok := scratch[id]; ok {
			return b
		}
		b := new(big.Int).Set(c.balanceLocked(id))
		scratch[id] = b
		return b
	}

	for i, m := range movements {
		if m.Amount == nil || m.Amount.Sign() < 0 {
			return fmt.Errorf("movement %d: %w", i, ErrInvalidAmount)
		}
		if checkRejecting && c.rejecting[m.To] {
			return fmt.Errorf("movement %d to %s: %w", i, m.To, ErrRecipientRejected)
		}
		from := get(m.From)
		if from.Cmp(m.Amount) < 0 {
			return fmt.Errorf("movement %d from %s: %w", i, m.From, ErrInsufficientBalance)
		}
		from.Sub(from, m.Amount)
		to := get(m.To)
		to.Add(to, m.Amount)
	}

	for id, b := range scratch {
		c.balances[id] = b
	}
	return nil
}

func (c *Chain) balanceLocked(identity string) *big.Int {
	if b, ok := c.balances[identity]; ok {
		return b
	}
	return new(big.Int)
}

var _ interfaces.Custody = (*Chain)(nil)

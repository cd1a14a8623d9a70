package memory

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps contributor records in a map and the funder sequence in a slice.
type MemoryLedgerStore struct {
	mu      sync.Mutex          // protects funded and funders
	funded  map[string]*big.Int // identity -> cumulative amount funded
	funders []string            // one entry per fund call, in call order
}

// NewMemoryLedgerStore creates and returns an empty MemoryLedgerStore
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		funded:  make(map[string]*big.Int),
		funders: make([]string, 0),
	}
}

// AmountFunded returns a copy of the funder's record, zero if none exists.
func (m *MemoryLedgerStore) AmountFunded(ctx context.Context, funder string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount, ok := m.funded[funder]; ok {
		return new(big.Int).Set(amount), nil
	}
	return new(big.Int), nil
}

func (m *MemoryLedgerStore) FunderCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.funders), nil
}

func (m *MemoryLedgerStore) FunderAt(ctx context.Context, index int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.funders) {
		return "", fmt.Errorf("funder index %d out of range [0,%d)", index, len(m.funders))
	}
	return m.funders[index], nil
}

// Funders returns a copy of the sequence so callers can't modify internal state
func (m *MemoryLedgerStore) Funders(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]string, len(m.funders))
	copy(copied, m.funders)
	return copied, nil
}

func (m *MemoryLedgerStore) RecordFunding(ctx context.Context, funder string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid funding amount %v", amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	total := new(big.Int).Set(amount)
	if prev, ok := m.funded[funder]; ok {
		total.Add(total, prev)
	}
	m.funded[funder] = total
	m.funders = append(m.funders, funder)
	return nil
}

func (m *MemoryLedgerStore) ResetFunders(ctx context.Context, funders []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range funders {
		delete(m.funded, f)
	}
	m.funders = make([]string, 0)
	return nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)

package pricefeed

import (
	"context"
	"math/big"
	"sync"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
)

// Development networks get a mock aggregator instead of a live feed.
const (
	MockAddress       = "MockV3Aggregator"
	MockDecimals      = 8
	MockInitialAnswer = 2000_00000000
)

// MockAggregator reports whatever answer it was last given.
type MockAggregator struct {
	mu       sync.RWMutex
	decimals uint8
	answer   *big.Int
	round    uint64
}

func NewMockAggregator(decimals uint8, initialAnswer *big.Int) *MockAggregator {
	m := &MockAggregator{decimals: decimals}
	m.UpdateAnswer(initialAnswer)
	return m
}

func (m *MockAggregator) Address() string {
	return MockAddress
}

func (m *MockAggregator) Decimals(ctx context.Context) (uint8, error) {
	return m.decimals, nil
}

func (m *MockAggregator) LatestAnswer(ctx context.Context) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return new(big.Int).Set(m.answer), nil
}

func (m *MockAggregator) UpdateAnswer(answer *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = new(big.Int).Set(answer)
	m.round++
}

func (m *MockAggregator) Round() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.round
}

var _ interfaces.PriceFeed = (*MockAggregator)(nil)

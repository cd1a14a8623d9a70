package ledger

import (
	"context"
	"math/big"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
)

const (
	GasTransaction  uint64 = 21000
	GasOracleCall   uint64 = 2600
	GasStorageRead  uint64 = 2100
	GasStorageWrite uint64 = 5000
)

// meter wraps the store and charges gas for every storage access made
// while a call is being staged.
type meter struct {
	store interfaces.LedgerStore
	gas   uint64
}

func newMeter(store interfaces.LedgerStore) *meter {
	return &meter{store: store, gas: GasTransaction}
}

func (m *meter) AmountFunded(ctx context.Context, funder string) (*big.Int, error) {
	m.gas += GasStorageRead
	return m.store.AmountFunded(ctx, funder)
}

func (m *meter) FunderCount(ctx context.Context) (int, error) {
	m.gas += GasStorageRead
	return m.store.FunderCount(ctx)
}

func (m *meter) FunderAt(ctx context.Context, index int) (string, error) {
	m.gas += GasStorageRead
	return m.store.FunderAt(ctx, index)
}

// Funders is one read of the length plus one per element.
func (m *meter) Funders(ctx context.Context) ([]string, error) {
	funders, err := m.store.Funders(ctx)
	m.gas += GasStorageRead * uint64(1+len(funders))
	return funders, err
}

func (m *meter) oracleCall() {
	m.gas += GasOracleCall
}

func (m *meter) writes(n int) {
	m.gas += GasStorageWrite * uint64(n)
}

func (m *meter) fee(gasPrice *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(m.gas), gasPrice)
}

package memory

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

func TestMemoryLedgerStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLedgerStore()

	amount, err := s.AmountFunded(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, amount.Sign())

	require.NoError(t, s.RecordFunding(ctx, "alice", big.NewInt(10)))
	require.NoError(t, s.RecordFunding(ctx, "bob", big.NewInt(5)))
	require.NoError(t, s.RecordFunding(ctx, "alice", big.NewInt(3)))

	amount, _ = s.AmountFunded(ctx, "alice")
	assert.Equal(t, int64(13), amount.Int64())

	count, _ := s.FunderCount(ctx)
	assert.Equal(t, 3, count, "repeat funders are appended again")

	funders, _ := s.Funders(ctx)
	assert.Equal(t, []string{"alice", "bob", "alice"}, funders)
	funders[0] = "mallory"
	first, err := s.FunderAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", first)

	_, err = s.FunderAt(ctx, 3)
	assert.Error(t, err)
	_, err = s.FunderAt(ctx, -1)
	assert.Error(t, err)

	assert.Error(t, s.RecordFunding(ctx, "alice", big.NewInt(-1)))

	require.NoError(t, s.ResetFunders(ctx, []string{"alice", "bob", "alice"}))
	count, _ = s.FunderCount(ctx)
	assert.Zero(t, count)
	amount, _ = s.AmountFunded(ctx, "bob")
	assert.Zero(t, amount.Sign())
}

func TestMemoryReceiptJournal(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryReceiptJournal()

	require.NoError(t, j.Record(ctx, models.Receipt{TxID: "1", Kind: models.CallFund}))
	require.NoError(t, j.Record(ctx, models.Receipt{TxID: "2", Kind: models.CallWithdraw}))

	receipts, err := j.Receipts(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "1", receipts[0].TxID)
	assert.Equal(t, models.CallWithdraw, receipts[1].Kind)
}

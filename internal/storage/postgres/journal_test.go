package postgres

import (
	"context"
	"database/sql"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

func TestNumericRoundTrip(t *testing.T) {
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	got, err := parseNumeric(numeric(huge))
	require.NoError(t, err)
	assert.Equal(t, 0, huge.Cmp(got))

	assert.Equal(t, "0", numeric(nil))
	_, err = parseNumeric("1.5")
	assert.Error(t, err)
}

func TestPostgresReceiptJournal(t *testing.T) {
	dsn := os.Getenv("FUNDME_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FUNDME_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	j := NewPostgresReceiptJournal(db)
	require.NoError(t, j.Migrate(ctx))
	_, err = db.ExecContext(ctx, `TRUNCATE receipts`)
	require.NoError(t, err)

	want := models.Receipt{
		TxID:      uuid.NewString(),
		Kind:      models.CallFund,
		Caller:    "0xalice",
		Value:     big.NewInt(100000000000000000),
		GasUsed:   48300,
		GasPrice:  big.NewInt(1000000000),
		Fee:       big.NewInt(48300000000000),
		Status:    models.StatusSucceeded,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, j.Record(ctx, want))

	got, err := j.Receipts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.TxID, got[0].TxID)
	assert.Equal(t, want.Value.String(), got[0].Value.String())
	assert.Equal(t, want.Fee.String(), got[0].Fee.String())
	assert.Equal(t, want.GasUsed, got[0].GasUsed)
	assert.True(t, want.CreatedAt.Equal(got[0].CreatedAt))
}

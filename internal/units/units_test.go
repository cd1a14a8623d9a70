package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	t.Run("fractional amount", func(t *testing.T) {
		wei, err := ParseEther("0.1")
		require.NoError(t, err)
		assert.Equal(t, "100000000000000000", wei.String())
	})

	t.Run("smallest unit", func(t *testing.T) {
		wei, err := ParseEther("0.000000000000000001")
		require.NoError(t, err)
		assert.Equal(t, int64(1), wei.Int64())
	})

	t.Run("rejects sub-wei precision", func(t *testing.T) {
		_, err := ParseEther("0.0000000000000000001")
		assert.Error(t, err)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := ParseEther("-1")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseEther("lots")
		assert.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.1", FormatEther(MustParseEther("0.1")))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "200.00", FormatReference(MustParseEther("200")))
	assert.Equal(t, "0.00", FormatReference(big.NewInt(0)))
}

func TestScaleInteger(t *testing.T) {
	v, err := ScaleInteger("2000", 8)
	require.NoError(t, err)
	assert.Equal(t, "200000000000", v.String())

	_, err = ScaleInteger("0.123", 2)
	assert.Error(t, err)
}

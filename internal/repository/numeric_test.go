package repository

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatToNumeric(t *testing.T) {
	n := floatToNumeric(129.99)

	assert.True(t, n.Valid)
	assert.Equal(t, big.NewInt(12999), n.Int)
	assert.Equal(t, int32(-2), n.Exp)

	zero := floatToNumeric(0)
	assert.True(t, zero.Valid)
	assert.Equal(t, 0, zero.Int.Sign())
}

func TestNumericToFloat(t *testing.T) {
	t.Run("Should round trip prices", func(t *testing.T) {
		for _, price := range []float64{0, 0.5, 19.9, 129.99, 1500} {
			got, err := numericToFloat(floatToNumeric(price))
			require.NoError(t, err)
			assert.Equal(t, price, got)
		}
	})

	t.Run("Should treat null as zero", func(t *testing.T) {
		got, err := numericToFloat(pgtype.Numeric{})
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("Should reject NaN", func(t *testing.T) {
		_, err := numericToFloat(pgtype.Numeric{NaN: true, Valid: true})
		assert.ErrorIs(t, err, errNonFiniteNumeric)
	})
}

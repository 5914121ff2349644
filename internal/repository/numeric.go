package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var errNonFiniteNumeric = errors.New("numeric is not finite")

// floatToNumeric keeps the shortest decimal representation of v, so 129.99 is
// stored as 129.99 rather than its binary approximation.
func floatToNumeric(v float64) pgtype.Numeric {
	d := decimal.NewFromFloat(v)
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToFloat(n pgtype.Numeric) (float64, error) {
	if !n.Valid {
		return 0, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return 0, errNonFiniteNumeric
	}
	return decimal.NewFromBigInt(n.Int, n.Exp).InexactFloat64(), nil
}

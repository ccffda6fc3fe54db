package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

// decimalToPgNumeric refuses values the column cannot hold exactly. It never rounds.
func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	if !domain.IsCentPrecise(d) {
		return pgtype.Numeric{}, fmt.Errorf("%w: %s has more than %d fractional digits", domain.ErrInvalidAmount, d, domain.AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(domain.MaxAmount) {
		return pgtype.Numeric{}, fmt.Errorf("%w: %s exceeds NUMERIC(14,2)", domain.ErrInvalidAmount, d)
	}
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}, nil
}

// pgNumericToDecimal maps NULL and NaN to zero
func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

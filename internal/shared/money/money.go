// Package money holds the fixed-point rules shared by the ledger services.
package money

import (
	"github.com/shopspring/decimal"

	"orangejuice/internal/shared/apperr"
)

const (
	// AmountPlaces is the scale of balances, prices and ledger amounts.
	AmountPlaces = 2
	// QuantityPlaces is the scale of investment quantities.
	QuantityPlaces = 4
)

// ExternalTransferFeeRate is charged on transfers between different owners.
var ExternalTransferFeeRate = decimal.RequireFromString("0.005")

var (
	ErrNonPositiveAmount   = apperr.Validation("amount must be greater than zero")
	ErrAmountPrecision     = apperr.Validation("amount must have at most 2 decimal places")
	ErrNonPositiveQuantity = apperr.Validation("quantity must be greater than zero")
	ErrQuantityPrecision   = apperr.Validation("quantity must have at most 4 decimal places")
)

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// Round4 rounds half away from zero to the quantity scale.
func Round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// ValidateAmount rejects non-positive amounts and sub-cent precision.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !d.Equal(Round2(d)) {
		return ErrAmountPrecision
	}
	return nil
}

// ValidateQuantity rejects non-positive quantities and excess precision.
func ValidateQuantity(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrNonPositiveQuantity
	}
	if !d.Equal(Round4(d)) {
		return ErrQuantityPrecision
	}
	return nil
}

// ExternalTransferFee is the fee for an external transfer, rounded to cents
// before it is applied to any balance.
func ExternalTransferFee(amount decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(ExternalTransferFeeRate))
}

// Package currency provides the currency symbol table and the rounding
// policy for all monetary values rendered on a receipt.
//
// Every monetary string in the generated document must be produced here so
// a single rounding policy governs the output.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency indicates a lookup for a code absent from the symbol
// table. The table is a closed enumeration of the currencies the business
// trades in, so a miss is a configuration gap, not a user error.
var ErrUnknownCurrency = errors.New("unknown currency code")

// Decimal places used by RoundCrypto.
const (
	stablePlaces = 2
	cryptoPlaces = 6
)

// Symbol returns the display symbol for an ISO-4217 currency code.
// Returns ErrUnknownCurrency if the code is not in the table.
func Symbol(code string) (string, error) {
	sym, ok := symbolsByCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return sym, nil
}

// Round2 formats a value with exactly two decimal places using "." as the
// decimal separator regardless of locale.
func Round2(v decimal.Decimal) string {
	return v.StringFixed(stablePlaces)
}

// RoundCrypto formats a crypto value: two decimal places for stable assets,
// six otherwise. Always uses "." as the decimal separator.
func RoundCrypto(v decimal.Decimal, isStable bool) string {
	if isStable {
		return v.StringFixed(stablePlaces)
	}
	return v.StringFixed(cryptoPlaces)
}

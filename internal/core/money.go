// Package core holds the transaction domain model and the pure
// derived-view functions computed over it.
//
// This file contains amount parsing. Amounts are signed decimals:
// negative values are expenses, non-negative values are income.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Returns ErrInvalidAmount for anything that does
// not parse to a finite number.
//
// Examples:
//
//	ParseAmount("50.00")  -> 50, nil
//	ParseAmount("-25,50") -> -25.5, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

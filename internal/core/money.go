// Package core holds the finance read model and the pure computations the
// dashboard renders: reference resolution, budget progress, activity merge
// and income/expense summaries.
//
// This file contains amount parsing and formatting.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a user supplied amount. Both dot (12.34) and comma
// (12,34) decimal separators are accepted; thousands separators are not.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34
//	ParseAmount("12,34") -> 12.34
//	ParseAmount("")      -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

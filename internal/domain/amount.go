package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value in integer minor units (fils, cents).
type Amount int64

const (
	// MaxAmount bounds a single line so that sums of MaxEntryLines lines cannot overflow.
	MaxAmount Amount = 1_000_000_000_000_000

	// DefaultScale is the number of minor digits of the ledger currency (IQD fils).
	DefaultScale int32 = 3
)

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Decimal converts minor units to a major-unit decimal.
func (a Amount) Decimal(scale int32) decimal.Decimal {
	return decimal.New(int64(a), -scale)
}

// Format renders the amount with exactly scale fraction digits.
func (a Amount) Format(scale int32) string {
	return a.Decimal(scale).StringFixed(scale)
}

// AmountFromDecimal converts a major-unit decimal to minor units.
// Values with more fraction digits than scale are rejected, never rounded.
func AmountFromDecimal(d decimal.Decimal, scale int32) (Amount, error) {
	minor := d.Shift(scale)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), scale)
	}
	if minor.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%w: %s", ErrAmountTooLarge, d.String())
	}
	return Amount(minor.IntPart()), nil
}

// ParseAmount parses a decimal string such as "1250.500". An empty string is zero.
func ParseAmount(s string, scale int32) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromDecimal(d, scale)
}

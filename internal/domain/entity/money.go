package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ParseAmountToCents reads a signed decimal amount ("-12.5", "1000", "0.07") into cents.
// Amounts with more than two decimal places are rejected rather than rounded.
func ParseAmountToCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	cents := value.Shift(MaxDecimalPlaces)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}
	if cents.GreaterThan(decimal.NewFromInt(maxCents)) || cents.LessThan(decimal.NewFromInt(minCents)) {
		return 0, fmt.Errorf("%w: value out of range", errs.ErrInvalidAmount)
	}

	return cents.IntPart(), nil
}

// FormatCents renders an amount in cents with exactly two decimal places.
// For example 1015 becomes "10.15" and -7 becomes "-0.07".
func FormatCents(amountInCents int64) string {
	return decimal.New(amountInCents, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}

const (
	maxCents = int64(^uint64(0) >> 1)
	minCents = -maxCents - 1
)

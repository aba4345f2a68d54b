package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency. Arithmetic between mismatched
// currencies is rejected rather than coerced.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a non-negative amount in the given currency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, NewError(CodeInvalidArgument, "amount cannot be negative")
	}
	if currency == "" {
		return Money{}, NewError(CodeInvalidArgument, "currency is required")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MustMoney is a test and literal helper; it panics on invalid input.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other, failing when currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, Errorf(CodeInvalidArgument,
			"cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// MulInt returns m multiplied by a quantity.
func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Cmp compares two amounts of the same currency: -1 if m < other, 0 if equal,
// 1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, Errorf(CodeInvalidArgument,
			"cannot compare %s with %s", m.Currency, other.Currency)
	}
	return m.Amount.Cmp(other.Amount), nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// Equal reports whether amount and currency both match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

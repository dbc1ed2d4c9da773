// Package money provides a fixed-point amount tied to an ISO 4217 currency code.
//
// Amounts are stored as a signed count of the currency's minor unit (cents for
// USD, whole yen for JPY). Floating point is never used for arithmetic; decimal
// values are only converted at the edges with FromDecimal and Decimal.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrOverflow         = errors.New("amount overflows int64 minor units")
)

// minorUnits maps a currency code to the number of decimal places of its minor unit.
var minorUnits = map[string]int32{
	"USD": 2, "EUR": 2, "GBP": 2, "CAD": 2, "AUD": 2, "CHF": 2,
	"INR": 2, "NPR": 2, "CNY": 2, "THB": 2, "SGD": 2, "MYR": 2,
	"PHP": 2, "BDT": 2, "LKR": 2, "PKR": 2, "AFN": 2,
	"JPY": 0, "KRW": 0, "VND": 0, "IDR": 0,
	"KWD": 3, "BHD": 3, "OMR": 3, "JOD": 3, "TND": 3,
}

// Money is an amount in minor units of Currency.
type Money struct {
	Amount   int64  `json:"amount_minor"`
	Currency string `json:"currency"`
}

// NormalizeCurrency upper-cases and validates a currency code.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := minorUnits[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// MinorUnits returns the exponent of the currency's minor unit.
func MinorUnits(currency string) (int32, error) {
	places, ok := minorUnits[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	return places, nil
}

// New returns amount minor units of currency.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount of currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// FromDecimal rounds d to the minor unit of currency.
func FromDecimal(d decimal.Decimal, currency string) (Money, error) {
	places, err := MinorUnits(currency)
	if err != nil {
		return Money{}, err
	}
	minor := d.Round(places).Shift(places)
	if !minor.Equal(decimal.NewFromInt(minor.IntPart())) {
		return Money{}, fmt.Errorf("%w: %s overflows", ErrInvalidAmount, d.String())
	}
	return Money{Amount: minor.IntPart(), Currency: currency}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	places, ok := minorUnits[m.Currency]
	if !ok {
		return decimal.NewFromInt(m.Amount)
	}
	return decimal.New(m.Amount, -places)
}

// String renders the amount for logs, e.g. "12.34 USD".
func (m Money) String() string {
	places := minorUnits[m.Currency]
	return m.Decimal().StringFixed(places) + " " + m.Currency
}

func (m Money) IsZero() bool     { return m.Amount == 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return m.Neg()
	}
	return m
}

// Add returns m+o. Both operands must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	sum, err := AddMinor(m.Amount, o.Amount)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: sum, Currency: m.Currency}, nil
}

// Sub returns m-o. Both operands must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	diff := m.Amount - o.Amount
	if (o.Amount > 0 && diff > m.Amount) || (o.Amount < 0 && diff < m.Amount) {
		return Money{}, ErrOverflow
	}
	return Money{Amount: diff, Currency: m.Currency}, nil
}

// AddMinor returns a+b, or ErrOverflow if the sum does not fit in an int64.
func AddMinor(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Cmp compares two amounts of the same currency: -1, 0 or +1.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.Amount < o.Amount:
		return -1, nil
	case m.Amount > o.Amount:
		return 1, nil
	}
	return 0, nil
}

func (m Money) sameCurrency(o Money) error {
	if m.Currency != o.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return nil
}

// Sum adds amounts that all share currency. An empty slice sums to zero.
func Sum(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

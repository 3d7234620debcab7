package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when two amounts of different currencies are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a fixed-point amount in a single currency.
// The zero value is "no value" (CurrencyNone).
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NoValue returns the Money that represents an unknown amount.
func NoValue() Money {
	return Money{}
}

// NewMoney creates a Money value. A CurrencyNone currency always yields NoValue.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	if currency.IsNone() {
		return NoValue()
	}
	return Money{Amount: amount, Currency: currency}
}

// ParseMoney parses an amount string in the given currency.
// An empty amount or currency yields NoValue; an unknown currency is an error.
func ParseMoney(amount string, currency string) (Money, error) {
	cur, err := ParseCurrency(currency)
	if err != nil {
		return NoValue(), err
	}
	if amount == "" || cur.IsNone() {
		return NoValue(), nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return NoValue(), fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return NewMoney(d, cur), nil
}

// USD is a shorthand for an amount in US dollars.
func USD(amount string) Money {
	return NewMoney(SafeParse(amount), CurrencyUSD)
}

// IsNull reports whether m carries no value.
func (m Money) IsNull() bool {
	return m.Currency.IsNone()
}

// Add sums two amounts. A null operand is the identity on either side;
// two non-null amounts must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if other.IsNull() {
		return m, nil
	}
	if m.IsNull() {
		return other, nil
	}
	if m.Currency != other.Currency {
		return NoValue(), fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Equal compares both currency and amount.
func (m Money) Equal(other Money) bool {
	if m.Currency != other.Currency {
		return false
	}
	if m.IsNull() {
		return true
	}
	return m.Amount.Equal(other.Amount)
}

// String renders USD as a bare amount ("15.00") and other currencies with
// their code ("EUR 20.00").
func (m Money) String() string {
	if m.IsNull() {
		return "-"
	}
	amount := m.Amount.StringFixed(m.Currency.Precision())
	if m.Currency == CurrencyUSD {
		return amount
	}
	return fmt.Sprintf("%s %s", m.Currency, amount)
}

// ConvertToUSD converts amount into US dollars using the exchange ratio implied
// by usPrice and price, which must describe the same value in USD and in amount's currency.
func ConvertToUSD(usPrice, price, amount Money) (Money, error) {
	if amount.IsNull() {
		return NoValue(), nil
	}
	if amount.Currency == CurrencyUSD {
		return amount, nil
	}
	if usPrice.Currency != CurrencyUSD || price.IsNull() || price.Amount.IsZero() {
		return NoValue(), fmt.Errorf("%w: no USD ratio for %s", ErrCurrencyMismatch, amount.Currency)
	}
	if price.Currency != amount.Currency {
		return NoValue(), fmt.Errorf("%w: ratio in %s, amount in %s", ErrCurrencyMismatch, price.Currency, amount.Currency)
	}
	rate := usPrice.Amount.Div(price.Amount)
	return NewMoney(amount.Amount.Mul(rate), CurrencyUSD), nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned for codes that are not ISO 4217 currencies.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is an ISO 4217 currency code. The zero value means no value is known.
type Currency string

const (
	CurrencyNone Currency = ""
	CurrencyUSD  Currency = "USD"
)

const defaultPrecision = 2

// ParseCurrency validates an ISO 4217 code, case-insensitively.
// Empty input, "NONE" and "XXX" yield CurrencyNone.
func ParseCurrency(code string) (Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "NONE") {
		return CurrencyNone, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return CurrencyNone, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	if unit == currency.XXX {
		return CurrencyNone, nil
	}
	return Currency(unit.String()), nil
}

// IsNone reports whether c carries no currency.
func (c Currency) IsNone() bool {
	return c == CurrencyNone
}

// Unit returns the x/text currency unit for c.
func (c Currency) Unit() (currency.Unit, bool) {
	if c.IsNone() {
		return currency.Unit{}, false
	}
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return currency.Unit{}, false
	}
	return unit, true
}

// Precision returns the number of decimal places used when displaying amounts in c,
// taken from the CLDR standard rounding for the currency.
func (c Currency) Precision() int32 {
	unit, ok := c.Unit()
	if !ok {
		return defaultPrecision
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

func (c Currency) String() string {
	if c.IsNone() {
		return "NONE"
	}
	return string(c)
}

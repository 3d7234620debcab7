// Package summary computes the price summary shown for a selection of watched auctions.
package summary

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/mtlprog/bidsum/internal/domain"
)

// Lookup resolves a selected row to its entry. Any error means the row is skipped;
// the error is only logged.
type Lookup func(row int) (domain.Entry, error)

// Aggregator sums the bid values of selected entries across currencies.
type Aggregator struct {
	shippingLabel string
}

// NewAggregator creates an Aggregator that labels shipping totals with shippingLabel (e.g. "s/h").
func NewAggregator(shippingLabel string) *Aggregator {
	return &Aggregator{shippingLabel: shippingLabel}
}

// Summarize returns the formatted total for rows, or false when no USD total could be built.
// It never panics and never returns an error: faults are logged and the affected entry dropped.
func (a *Aggregator) Summarize(rows []int, lookup Lookup) (string, bool) {
	res := a.Aggregate(rows, lookup)
	return Format(res, a.shippingLabel)
}

// Aggregate walks rows in order and accumulates the totals for every entry that still resolves.
func (a *Aggregator) Aggregate(rows []int, lookup Lookup) Result {
	var res Result
	for _, row := range rows {
		entry, err := lookup(row)
		if err != nil || entry == nil {
			slog.Debug("summary: skipping row", "row", row, "selected", len(rows), "error", err)
			res.skip()
			continue
		}
		accumulate(&res, row, entry)
	}
	return res
}

// accumulate adds one entry to res. Each total is assigned only after it has been
// computed, so a panic part way through keeps the last good values.
func accumulate(res *Result, row int, entry domain.Entry) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("summary: entry failed", "row", row, "panic", p)
		}
	}()

	if entry.CurrentPrice().Currency != domain.CurrencyUSD {
		res.Approximate = true
	}

	usPrice := entry.CurrentUSPrice()

	if res.USD == nil {
		res.USD = lo.ToPtr(usPrice)
		res.USDWithShipping = addUSD(res.USDWithShipping, row, entry)
		seedNative(res, row, entry)
		return
	}
	if usPrice.IsNull() || res.USD.IsNull() {
		return
	}

	total, err := res.USD.Add(usPrice)
	if err != nil {
		slog.Error("summary: USD price not in USD", "row", row, "error", err)
	} else {
		res.USD = &total
		res.USDWithShipping = addUSD(res.USDWithShipping, row, entry)
	}

	if res.tracksNative() {
		trackNative(res, row, entry)
	}
}

// seedNative starts the native totals from the first entry.
func seedNative(res *Result, row int, entry domain.Entry) {
	res.Native = lo.ToPtr(entry.BestBidValue())

	nativeShip, err := addNative(res.NativeWithShipping, entry)
	if err != nil {
		slog.Debug("summary: native shipping not combinable", "row", row, "error", err)
		res.disableNative()
		return
	}
	res.NativeWithShipping = nativeShip
}

// trackNative adds the entry's best bid to the native totals, disabling the native
// track for the rest of the call on the first currency mismatch or when it was never seeded.
func trackNative(res *Result, row int, entry domain.Entry) {
	if res.Native == nil {
		slog.Debug("summary: native total never seeded", "row", row)
		res.disableNative()
		return
	}
	native, err := res.Native.Add(entry.BestBidValue())
	if err != nil {
		slog.Debug("summary: mixed currencies, native total dropped", "row", row, "error", err)
		res.disableNative()
		return
	}
	nativeShip, err := addNative(res.NativeWithShipping, entry)
	if err != nil {
		slog.Debug("summary: mixed currencies, native total dropped", "row", row, "error", err)
		res.disableNative()
		return
	}
	res.Native = &native
	res.NativeWithShipping = nativeShip
}

// addUSD adds the entry's USD price plus its shipping converted to USD.
// Shipping that cannot be converted is left out; the price itself is always added.
func addUSD(acc *domain.Money, row int, entry domain.Entry) *domain.Money {
	usPrice := entry.CurrentUSPrice()
	contribution := usPrice

	if shipping := entry.ShippingWithInsurance(); !shipping.IsNull() {
		usShipping, err := domain.ConvertToUSD(usPrice, entry.CurrentPrice(), shipping)
		if err == nil {
			contribution, err = usPrice.Add(usShipping)
		}
		if err != nil {
			slog.Warn("summary: shipping not convertible to USD, left out", "row", row, "error", err)
			contribution = usPrice
		}
	}

	if acc == nil || acc.IsNull() {
		return &contribution
	}
	total, err := acc.Add(contribution)
	if err != nil {
		slog.Warn("summary: USD total with shipping failed", "row", row, "error", err)
		return acc
	}
	return &total
}

// addNative adds the entry's best bid plus shipping, both in the entry's own currency.
func addNative(acc *domain.Money, entry domain.Entry) (*domain.Money, error) {
	contribution, err := entry.BestBidValue().Add(entry.ShippingWithInsurance())
	if err != nil {
		return acc, err
	}
	if acc == nil || acc.IsNull() {
		return &contribution, nil
	}
	total, err := acc.Add(contribution)
	if err != nil {
		return acc, err
	}
	return &total, nil
}

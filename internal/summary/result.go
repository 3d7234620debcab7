package summary

import "github.com/mtlprog/bidsum/internal/domain"

// nativeState tracks whether the native-currency totals are still meaningful.
// It only moves forward, from trackingNative to nativeDisabled.
type nativeState int

const (
	trackingNative nativeState = iota
	nativeDisabled
)

// Result holds the running totals for one selection. Nil totals were never seeded.
type Result struct {
	USD                *domain.Money
	USDWithShipping    *domain.Money
	Native             *domain.Money
	NativeWithShipping *domain.Money

	// Approximate is set when an entry was skipped or priced in a non-USD currency.
	Approximate bool
	// Skipped counts rows that no longer resolve to an entry.
	Skipped int

	native nativeState
}

// CrossCurrency reports whether two differing currencies were met on the native track.
func (r *Result) CrossCurrency() bool {
	return r.native == nativeDisabled
}

func (r *Result) tracksNative() bool {
	return r.native == trackingNative
}

func (r *Result) disableNative() {
	r.native = nativeDisabled
}

func (r *Result) skip() {
	r.Skipped++
	r.Approximate = true
}

package summary

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/bidsum/internal/domain"
)

const approximatePrefix = "About "

// Format renders res for display. It returns false when no USD total was ever seeded.
//
// While the native track survives, the native total is shown; otherwise the USD total
// is shown, prefixed with "About " when any contribution was approximate. Either total
// is followed by "(<with shipping> with <shippingLabel>)" when shipping changed it.
func Format(res Result, shippingLabel string) (text string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("summary: formatting failed", "panic", p)
			text, ok = "", false
		}
	}()

	if res.USD == nil || res.USD.IsNull() {
		return "", false
	}

	var b strings.Builder
	if !res.CrossCurrency() && res.Native != nil && !res.Native.IsNull() {
		if res.Skipped > 0 {
			b.WriteString(approximatePrefix)
		}
		writeAmountAndShipping(&b, *res.Native, res.NativeWithShipping, shippingLabel)
		return b.String(), true
	}

	if res.Approximate {
		b.WriteString(approximatePrefix)
	}
	writeAmountAndShipping(&b, *res.USD, res.USDWithShipping, shippingLabel)
	return b.String(), true
}

func writeAmountAndShipping(b *strings.Builder, amount domain.Money, withShipping *domain.Money, label string) {
	b.WriteString(amount.String())
	if withShipping != nil && !withShipping.IsNull() && !amount.Equal(*withShipping) {
		fmt.Fprintf(b, " (%s with %s)", withShipping, label)
	}
}

// StatusLine renders the status bar text for a selection of count rows.
// An absent summary clears the price with a blank placeholder.
func StatusLine(count int, summary string, ok bool) string {
	if !ok {
		return "PRICE  "
	}
	return fmt.Sprintf("PRICE %d / %s", count, summary)
}

package domain

import "time"

// Entry is the read-only view of a watched auction used when pricing a selection.
type Entry interface {
	// CurrentPrice is the current high bid in the auction's own currency.
	CurrentPrice() Money
	// CurrentUSPrice is CurrentPrice normalised to USD, or NoValue when no rate is known.
	CurrentUSPrice() Money
	// BestBidValue is the amount that best represents what the buyer could spend.
	BestBidValue() Money
	// ShippingWithInsurance is NoValue when shipping is unknown.
	ShippingWithInsurance() Money
}

// Auction is a watched auction as stored in the book.
type Auction struct {
	Identifier   string    `json:"identifier"`
	Title        string    `json:"title"`
	CurrentBid   Money     `json:"currentBid"`
	USCurrentBid Money     `json:"usCurrentBid"`
	MaxBid       Money     `json:"maxBid"`
	SnipeBid     Money     `json:"snipeBid"`
	Shipping     Money     `json:"shipping"`
	Insurance    Money     `json:"insurance"`
	Ended        bool      `json:"ended"`
	EndsAt       time.Time `json:"endsAt"`
}

func (a *Auction) CurrentPrice() Money { return a.CurrentBid }

func (a *Auction) CurrentUSPrice() Money { return a.USCurrentBid }

// BestBidValue returns the current bid for closed or unbid auctions, the snipe
// amount when a snipe is set, and the user's max bid otherwise.
func (a *Auction) BestBidValue() Money {
	if a.Ended {
		return a.CurrentBid
	}
	if !a.SnipeBid.IsNull() {
		return a.SnipeBid
	}
	if !a.MaxBid.IsNull() {
		return a.MaxBid
	}
	return a.CurrentBid
}

// ShippingWithInsurance adds insurance to shipping when both are in the same currency.
func (a *Auction) ShippingWithInsurance() Money {
	if a.Shipping.IsNull() {
		return NoValue()
	}
	total, err := a.Shipping.Add(a.Insurance)
	if err != nil {
		return a.Shipping
	}
	return total
}

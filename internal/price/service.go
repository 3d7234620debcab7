// Package price normalises auction amounts to US dollars.
package price

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

// ErrNoRate indicates that no usable exchange rate is known for a currency.
var ErrNoRate = errors.New("no exchange rate available")

// RateSource provides exchange rates as units of currency per one US dollar.
type RateSource interface {
	Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// Service converts amounts to USD using a RateSource.
type Service struct {
	rates RateSource
	cache *rateCache
}

// NewService creates a new price Service.
func NewService(rates RateSource) *Service {
	return &Service{
		rates: rates,
		cache: newRateCache(),
	}
}

// ToUSD converts m to US dollars. Null amounts stay null.
func (s *Service) ToUSD(ctx context.Context, m domain.Money) (domain.Money, error) {
	if m.IsNull() || m.Currency == domain.CurrencyUSD {
		return m, nil
	}

	rate, err := s.rate(ctx, m.Currency)
	if err != nil {
		return domain.NoValue(), err
	}
	return domain.NewMoney(domain.SafeDivide(m.Amount, rate), domain.CurrencyUSD), nil
}

func (s *Service) rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	key := cacheKey(currency)
	if cached, ok := s.cache.get(key); ok {
		return cached, nil
	}

	rate, err := s.rates.Rate(ctx, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w for %s: %w", ErrNoRate, currency, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w for %s: rate %s", ErrNoRate, currency, rate)
	}

	s.cache.set(key, rate)
	return rate, nil
}

// Normalize fills in the USD current bid of every auction. Auctions whose
// currency has no rate keep a null USD price.
func (s *Service) Normalize(ctx context.Context, auctions []*domain.Auction) {
	for _, a := range auctions {
		if a == nil {
			continue
		}
		us, err := s.ToUSD(ctx, a.CurrentBid)
		if err != nil {
			slog.Warn("price: cannot normalise to USD", "auction", a.Identifier, "currency", a.CurrentBid.Currency, "error", err)
		}
		a.USCurrentBid = us
	}
}

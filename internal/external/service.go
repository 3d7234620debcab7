// Package external fetches and stores exchange rates used to price foreign auctions.
package external

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

// RateFetcher loads the latest USD exchange rates from a remote source.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[domain.Currency]decimal.Decimal, error)
}

// Service keeps stored exchange rates up to date and serves them.
type Service struct {
	fetcher        RateFetcher
	repo           RateRepository
	staleThreshold time.Duration
}

// NewService creates a new exchange-rate Service. A zero staleThreshold disables staleness warnings.
func NewService(fetcher RateFetcher, repo RateRepository, staleThreshold time.Duration) *Service {
	return &Service{
		fetcher:        fetcher,
		repo:           repo,
		staleThreshold: staleThreshold,
	}
}

// FetchAndStoreRates fetches all exchange rates and stores them.
func (s *Service) FetchAndStoreRates(ctx context.Context) error {
	rates, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("fetching exchange rates: %w", err)
	}

	for currency, perUSD := range rates {
		if err := s.repo.SaveRate(ctx, currency, perUSD); err != nil {
			return fmt.Errorf("storing rate for %s: %w", currency, err)
		}
	}

	return nil
}

// RateView is a stored rate together with its freshness.
type RateView struct {
	Rate
	Stale bool `json:"stale"`
}

// Rates returns every stored rate, flagging those older than the stale threshold.
func (s *Service) Rates(ctx context.Context) ([]RateView, error) {
	stored, err := s.repo.GetAllRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}
	views := make([]RateView, 0, len(stored))
	for _, r := range stored {
		views = append(views, RateView{Rate: r, Stale: s.isStale(r)})
	}
	return views, nil
}

func (s *Service) isStale(r Rate) bool {
	return s.staleThreshold > 0 && time.Since(r.UpdatedAt) > s.staleThreshold
}

// Rate returns units of currency per one US dollar. Stale rates are still served.
func (s *Service) Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	if currency == domain.CurrencyUSD {
		return decimal.NewFromInt(1), nil
	}

	q, err := s.repo.GetRate(ctx, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting rate for %s: %w", currency, err)
	}

	if s.isStale(q) {
		slog.Warn("external: serving stale rate", "currency", currency, "updatedAt", q.UpdatedAt)
	}
	return q.PerUSD, nil
}

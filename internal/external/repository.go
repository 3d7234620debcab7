package external

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

// ErrRateNotFound indicates that no rate is stored for a currency.
var ErrRateNotFound = errors.New("rate not found")

// Rate represents a stored USD exchange rate.
type Rate struct {
	Currency  domain.Currency `json:"currency"`
	PerUSD    decimal.Decimal `json:"perUsd"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RateRepository defines persistent storage for exchange rates.
type RateRepository interface {
	SaveRate(ctx context.Context, currency domain.Currency, perUSD decimal.Decimal) error
	GetRate(ctx context.Context, currency domain.Currency) (Rate, error)
	GetAllRates(ctx context.Context) ([]Rate, error)
}

// PgRateRepository implements RateRepository with PostgreSQL.
type PgRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgRateRepository creates a new PostgreSQL rate repository.
func NewPgRateRepository(pool *pgxpool.Pool) *PgRateRepository {
	return &PgRateRepository{pool: pool}
}

func (r *PgRateRepository) SaveRate(ctx context.Context, currency domain.Currency, perUSD decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exchange_rates (currency, per_usd, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (currency) DO UPDATE SET per_usd = $2, updated_at = NOW()`,
		string(currency), perUSD)
	if err != nil {
		return fmt.Errorf("saving rate for %s: %w", currency, err)
	}
	return nil
}

func (r *PgRateRepository) GetRate(ctx context.Context, currency domain.Currency) (Rate, error) {
	var (
		q    Rate
		code string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT currency, per_usd, updated_at FROM exchange_rates WHERE currency = $1`,
		string(currency)).Scan(&code, &q.PerUSD, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, currency)
		}
		return Rate{}, fmt.Errorf("getting rate for %s: %w", currency, err)
	}
	if q.Currency, err = domain.ParseCurrency(code); err != nil {
		return Rate{}, err
	}
	return q, nil
}

func (r *PgRateRepository) GetAllRates(ctx context.Context) ([]Rate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT currency, per_usd, updated_at FROM exchange_rates ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("getting all rates: %w", err)
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		var (
			q    Rate
			code string
		)
		if err := rows.Scan(&code, &q.PerUSD, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}
		cur, err := domain.ParseCurrency(code)
		if err != nil {
			return nil, err
		}
		q.Currency = cur
		rates = append(rates, q)
	}
	return rates, rows.Err()
}

// MemoryRateRepository keeps rates in process, for the CLI and tests.
type MemoryRateRepository struct {
	mu    sync.RWMutex
	rates map[domain.Currency]Rate
}

// NewMemoryRateRepository creates an empty in-memory rate repository.
func NewMemoryRateRepository() *MemoryRateRepository {
	return &MemoryRateRepository{rates: make(map[domain.Currency]Rate)}
}

func (m *MemoryRateRepository) SaveRate(_ context.Context, currency domain.Currency, perUSD decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[currency] = Rate{Currency: currency, PerUSD: perUSD, UpdatedAt: time.Now()}
	return nil
}

func (m *MemoryRateRepository) GetRate(_ context.Context, currency domain.Currency) (Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.rates[currency]
	if !ok {
		return Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, currency)
	}
	return q, nil
}

func (m *MemoryRateRepository) GetAllRates(_ context.Context) ([]Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rates := make([]Rate, 0, len(m.rates))
	for _, q := range m.rates {
		rates = append(rates, q)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Currency < rates[j].Currency })
	return rates, nil
}

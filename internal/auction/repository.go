package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

// ErrNotFound indicates that the requested auction was not found.
var ErrNotFound = errors.New("auction not found")

// Repository defines persistent storage for watched auctions.
type Repository interface {
	List(ctx context.Context) ([]*domain.Auction, error)
	Get(ctx context.Context, identifier string) (*domain.Auction, error)
	Upsert(ctx context.Context, a domain.Auction) error
	Delete(ctx context.Context, identifier string) error
}

var _ Repository = (*PgRepository)(nil)

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL auction repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const selectAuction = `SELECT identifier, title,
		current_amount, current_currency,
		max_bid_amount, max_bid_currency,
		snipe_amount, snipe_currency,
		shipping_amount, shipping_currency,
		insurance_amount, insurance_currency,
		ended, ends_at
	 FROM watched_auctions`

// List returns the watched auctions in end-time order, as the book shows them.
func (r *PgRepository) List(ctx context.Context) ([]*domain.Auction, error) {
	rows, err := r.pool.Query(ctx, selectAuction+` ORDER BY ends_at, identifier`)
	if err != nil {
		return nil, fmt.Errorf("listing auctions: %w", err)
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating auctions: %w", err)
	}
	return auctions, nil
}

func (r *PgRepository) Get(ctx context.Context, identifier string) (*domain.Auction, error) {
	row := r.pool.QueryRow(ctx, selectAuction+` WHERE identifier = $1`, identifier)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting auction %s: %w", identifier, err)
	}
	return a, nil
}

func (r *PgRepository) Upsert(ctx context.Context, a domain.Auction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO watched_auctions (identifier, title,
			current_amount, current_currency,
			max_bid_amount, max_bid_currency,
			snipe_amount, snipe_currency,
			shipping_amount, shipping_currency,
			insurance_amount, insurance_currency,
			ended, ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (identifier) DO UPDATE SET
			title = $2,
			current_amount = $3, current_currency = $4,
			max_bid_amount = $5, max_bid_currency = $6,
			snipe_amount = $7, snipe_currency = $8,
			shipping_amount = $9, shipping_currency = $10,
			insurance_amount = $11, insurance_currency = $12,
			ended = $13, ends_at = $14`,
		a.Identifier, a.Title,
		amountArg(a.CurrentBid), currencyArg(a.CurrentBid),
		amountArg(a.MaxBid), currencyArg(a.MaxBid),
		amountArg(a.SnipeBid), currencyArg(a.SnipeBid),
		amountArg(a.Shipping), currencyArg(a.Shipping),
		amountArg(a.Insurance), currencyArg(a.Insurance),
		a.Ended, a.EndsAt)
	if err != nil {
		return fmt.Errorf("saving auction %s: %w", a.Identifier, err)
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, identifier string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM watched_auctions WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("deleting auction %s: %w", identifier, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Load implements the book loader contract.
func (r *PgRepository) Load(ctx context.Context) ([]*domain.Auction, error) {
	return r.List(ctx)
}

type nullableMoney struct {
	amount   *decimal.Decimal
	currency *string
}

func (n nullableMoney) money() (domain.Money, error) {
	if n.amount == nil || n.currency == nil {
		return domain.NoValue(), nil
	}
	cur, err := domain.ParseCurrency(*n.currency)
	if err != nil {
		return domain.NoValue(), err
	}
	return domain.NewMoney(*n.amount, cur), nil
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	var (
		a                                    domain.Auction
		current, maxBid, snipe, ship, insure nullableMoney
		endsAt                               *time.Time
	)
	err := row.Scan(&a.Identifier, &a.Title,
		&current.amount, &current.currency,
		&maxBid.amount, &maxBid.currency,
		&snipe.amount, &snipe.currency,
		&ship.amount, &ship.currency,
		&insure.amount, &insure.currency,
		&a.Ended, &endsAt)
	if err != nil {
		return nil, err
	}
	targets := []*domain.Money{&a.CurrentBid, &a.MaxBid, &a.SnipeBid, &a.Shipping, &a.Insurance}
	for i, n := range []nullableMoney{current, maxBid, snipe, ship, insure} {
		m, err := n.money()
		if err != nil {
			return nil, fmt.Errorf("auction %s: %w", a.Identifier, err)
		}
		*targets[i] = m
	}
	if endsAt != nil {
		a.EndsAt = *endsAt
	}
	return &a, nil
}

func amountArg(m domain.Money) *decimal.Decimal {
	if m.IsNull() {
		return nil
	}
	return &m.Amount
}

func currencyArg(m domain.Money) *string {
	if m.IsNull() {
		return nil
	}
	code := string(m.Currency)
	return &code
}

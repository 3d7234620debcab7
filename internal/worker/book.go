package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/bidsum/internal/domain"
)

// Loader returns the current list of watched auctions.
type Loader interface {
	Load(ctx context.Context) ([]*domain.Auction, error)
}

// Normalizer fills in the USD prices of loaded auctions.
type Normalizer interface {
	Normalize(ctx context.Context, auctions []*domain.Auction)
}

// BookReplacer receives each freshly loaded list.
type BookReplacer interface {
	Replace(auctions []*domain.Auction)
}

// BookWorker periodically reloads the auction book.
type BookWorker struct {
	loader     Loader
	normalizer Normalizer
	book       BookReplacer
	interval   time.Duration
}

// NewBookWorker creates a new BookWorker.
func NewBookWorker(loader Loader, normalizer Normalizer, book BookReplacer, interval time.Duration) *BookWorker {
	return &BookWorker{
		loader:     loader,
		normalizer: normalizer,
		book:       book,
		interval:   interval,
	}
}

// Refresh loads, normalises and publishes one list. A failed load keeps the current book.
func (w *BookWorker) Refresh(ctx context.Context) error {
	auctions, err := w.loader.Load(ctx)
	if err != nil {
		return err
	}
	w.normalizer.Normalize(ctx, auctions)
	w.book.Replace(auctions)
	slog.Info("BookWorker: book refreshed", "auctions", len(auctions))
	return nil
}

// Run loads the book at startup and then on every interval. It blocks until ctx is cancelled.
func (w *BookWorker) Run(ctx context.Context) {
	runEvery(ctx, "book", w.interval, w.Refresh)
}

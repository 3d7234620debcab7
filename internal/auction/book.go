// Package auction holds the live list of watched auctions and its storage.
package auction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mtlprog/bidsum/internal/domain"
)

var (
	// ErrRowOutOfRange indicates a selected row beyond the current list.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrNoEntry indicates a row whose slot holds no auction.
	ErrNoEntry = errors.New("no auction at row")
)

// Book is the ordered list of watched auctions that selections index into.
// It is replaced wholesale by background refreshes while readers look rows up.
type Book struct {
	mu       sync.RWMutex
	auctions []*domain.Auction
}

// NewBook creates a Book holding auctions.
func NewBook(auctions []*domain.Auction) *Book {
	b := &Book{}
	b.Replace(auctions)
	return b
}

// Replace swaps in a new list. The slice is copied; the auctions are not.
func (b *Book) Replace(auctions []*domain.Auction) {
	next := make([]*domain.Auction, len(auctions))
	copy(next, auctions)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.auctions = next
}

// Len returns the number of rows.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.auctions)
}

// Snapshot returns a copy of the current rows.
func (b *Book) Snapshot() []domain.Auction {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Auction, 0, len(b.auctions))
	for _, a := range b.auctions {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Lookup resolves row to its auction as of now.
func (b *Book) Lookup(row int) (domain.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if row < 0 || row >= len(b.auctions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(b.auctions))
	}
	a := b.auctions[row]
	if a == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoEntry, row)
	}
	return a, nil
}

package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/mtlprog/bidsum/internal/domain"
)

// SyncResult counts what Sync changed in the repository.
type SyncResult struct {
	Added     int
	Updated   int
	Unchanged int
	Removed   int
}

// Sync writes auctions into repo. Auctions already stored with the same values are left
// alone. With prune set, stored auctions missing from the list are deleted.
func Sync(ctx context.Context, repo Repository, auctions []*domain.Auction, prune bool) (SyncResult, error) {
	var res SyncResult
	incoming := lo.Filter(auctions, func(a *domain.Auction, _ int) bool { return a != nil })

	for _, a := range incoming {
		stored, err := repo.Get(ctx, a.Identifier)
		switch {
		case errors.Is(err, ErrNotFound):
			res.Added++
		case err != nil:
			return res, fmt.Errorf("syncing auction %s: %w", a.Identifier, err)
		case sameAuction(stored, a):
			res.Unchanged++
			continue
		default:
			res.Updated++
		}
		if err := repo.Upsert(ctx, *a); err != nil {
			return res, err
		}
	}

	if !prune {
		return res, nil
	}

	stored, err := repo.List(ctx)
	if err != nil {
		return res, err
	}
	keep := lo.SliceToMap(incoming, func(a *domain.Auction) (string, struct{}) {
		return a.Identifier, struct{}{}
	})
	for _, a := range stored {
		if _, ok := keep[a.Identifier]; ok {
			continue
		}
		if err := repo.Delete(ctx, a.Identifier); err != nil && !errors.Is(err, ErrNotFound) {
			return res, err
		}
		slog.Info("auction: removed from watch list", "auction", a.Identifier)
		res.Removed++
	}
	return res, nil
}

func sameAuction(a, b *domain.Auction) bool {
	return a.Identifier == b.Identifier &&
		a.Title == b.Title &&
		a.Ended == b.Ended &&
		a.EndsAt.Equal(b.EndsAt) &&
		a.CurrentBid.Equal(b.CurrentBid) &&
		a.MaxBid.Equal(b.MaxBid) &&
		a.SnipeBid.Equal(b.SnipeBid) &&
		a.Shipping.Equal(b.Shipping) &&
		a.Insurance.Equal(b.Insurance)
}

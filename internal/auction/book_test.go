package auction

import (
	"errors"
	"sync"
	"testing"

	"github.com/mtlprog/bidsum/internal/domain"
)

func TestBookLookup(t *testing.T) {
	a := &domain.Auction{Identifier: "1001", CurrentBid: domain.USD("5")}
	b := NewBook([]*domain.Auction{a, nil})

	entry, err := b.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup(0): %v", err)
	}
	if got := entry.CurrentPrice(); !got.Equal(domain.USD("5")) {
		t.Errorf("CurrentPrice = %s, want 5.00", got)
	}

	tests := []struct {
		row  int
		want error
	}{
		{1, ErrNoEntry},
		{2, ErrRowOutOfRange},
		{-1, ErrRowOutOfRange},
	}
	for _, tt := range tests {
		if _, err := b.Lookup(tt.row); !errors.Is(err, tt.want) {
			t.Errorf("Lookup(%d) err = %v, want %v", tt.row, err, tt.want)
		}
	}
}

func TestBookReplaceCopiesSlice(t *testing.T) {
	list := []*domain.Auction{{Identifier: "a"}, {Identifier: "b"}}
	b := NewBook(list)

	list[0] = nil

	if _, err := b.Lookup(0); err != nil {
		t.Errorf("Lookup(0) after caller mutation: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBookSnapshotSkipsEmptySlots(t *testing.T) {
	b := NewBook([]*domain.Auction{{Identifier: "a"}, nil, {Identifier: "c"}})

	snap := b.Snapshot()

	if len(snap) != 2 {
		t.Fatalf("len(Snapshot) = %d, want 2", len(snap))
	}
	if snap[1].Identifier != "c" {
		t.Errorf("snap[1] = %q, want c", snap[1].Identifier)
	}
}

func TestBookConcurrentReplaceAndLookup(t *testing.T) {
	b := NewBook(nil)
	long := []*domain.Auction{{Identifier: "a"}, {Identifier: "b"}, {Identifier: "c"}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			if i%2 == 0 {
				b.Replace(long)
			} else {
				b.Replace(nil)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			if _, err := b.Lookup(2); err != nil && !errors.Is(err, ErrRowOutOfRange) {
				t.Errorf("Lookup(2) err = %v, want ErrRowOutOfRange", err)
			}
		}
	}()
	wg.Wait()
}

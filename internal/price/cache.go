package price

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

const cacheTTL = 30 * time.Second

type cacheEntry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

type rateCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newRateCache() *rateCache {
	return &rateCache{
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey formats: "USD=>{currency}" e.g. "USD=>EUR"
func cacheKey(currency domain.Currency) string {
	return fmt.Sprintf("%s=>%s", domain.CurrencyUSD, currency)
}

func (c *rateCache) get(key string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return decimal.Zero, false
	}
	return entry.rate, true
}

func (c *rateCache) set(key string, rate decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		rate:      rate,
		expiresAt: time.Now().Add(cacheTTL),
	}
}

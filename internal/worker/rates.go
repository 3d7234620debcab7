package worker

import (
	"context"
	"time"
)

// RateRefresher fetches exchange rates and stores them.
type RateRefresher interface {
	FetchAndStoreRates(ctx context.Context) error
}

// RateWorker keeps stored exchange rates fresh.
type RateWorker struct {
	refresher RateRefresher
	interval  time.Duration
}

// NewRateWorker creates a RateWorker that refreshes every interval.
func NewRateWorker(refresher RateRefresher, interval time.Duration) *RateWorker {
	return &RateWorker{refresher: refresher, interval: interval}
}

// Run refreshes rates at startup and then on every interval. It blocks until ctx is cancelled.
func (w *RateWorker) Run(ctx context.Context) {
	runEvery(ctx, "rates", w.interval, w.refresher.FetchAndStoreRates)
}

// Package worker runs the background refresh jobs of the server.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// runEvery calls fn once straight away and then on every tick until ctx is cancelled.
// A failed run is logged and retried on the next tick. A non-positive interval runs fn once.
func runEvery(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	log := slog.With("worker", name)
	log.Info("worker starting", "interval", interval)

	run := func(trigger string) {
		started := time.Now()
		if err := fn(ctx); err != nil {
			log.Error("worker run failed", "trigger", trigger, "error", err)
			return
		}
		log.Debug("worker run completed", "trigger", trigger, "took", time.Since(started))
	}

	run("startup")
	if interval <= 0 {
		log.Warn("worker has no interval, not rescheduling")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		case <-ticker.C:
			run("tick")
		}
	}
}

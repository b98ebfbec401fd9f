package session

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper runs a background goroutine that periodically drops sessions
// idle longer than ttl. Gateways do not signal abandonment, so without the
// sweeper an abandoned dialog would pin its session forever.
func StartSweeper(ctx context.Context, store *MemoryStore, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if removed := store.sweep(ttl); removed > 0 {
					slog.Info("Session sweeper removed idle sessions", "count", removed, "remaining", store.Len())
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

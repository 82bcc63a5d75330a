// Package sweep purges expired KV entries in the background.
package sweep

import (
	"context"
	"time"

	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/logging"
)

// Start sweeps store every interval until ctx is cancelled.
func Start(ctx context.Context, store kv.Sweeper, interval time.Duration) {
	log := logging.Component("sweep")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.SweepExpired(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("kv sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("kv sweep")
			}
		}
	}
}

package session

import (
	"context"
	"time"
)

// pollPresence refreshes presence once at start and then on every tick until the session ends.
// Presence is best-effort: failures are logged and the schedule carries on.
func (c *Controller) pollPresence(ctx context.Context) error {
	c.refreshPresence(ctx)

	ticker := time.NewTicker(c.opts.PresenceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.refreshPresence(ctx)
		}
	}
}

func (c *Controller) refreshPresence(ctx context.Context) {
	records, err := read(ctx, "read presence", c.source.ReadPresence)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn().Err(err).Msg("presence refresh failed")
		}
		return
	}

	c.post(func() {
		c.store.ReplacePresence(records)
		c.publish()
	})
}

package session

import (
	"context"
	"time"
)

// Watch reconciles the session every interval until ctx is done. Each tick
// is a regular CheckAuth, so a rejected credential evicts the session and
// notifies subscribers.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CheckAuth(ctx)
		case <-ctx.Done():
			return
		}
	}
}

package serial

import (
	"context"
	"time"
)

// DefaultWatchInterval is the polling period used where hotplug
// notifications are unavailable.
const DefaultWatchInterval = 2 * time.Second

func send(ctx context.Context, ch chan<- []PortRecord, ports []PortRecord) bool {
	select {
	case ch <- ports:
		return true
	case <-ctx.Done():
		return false
	}
}

func pollPorts(ctx context.Context, ch chan<- []PortRecord, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send(ctx, ch, ListPorts()) {
				return
			}
		}
	}
}

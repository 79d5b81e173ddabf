//go:build !linux

package serial

import (
	"context"
	"time"
)

// WatchPorts sends a ListPorts snapshot immediately and then every interval.
// The channel is closed when ctx is done.
func WatchPorts(ctx context.Context, interval time.Duration) <-chan []PortRecord {
	ch := make(chan []PortRecord, 1)

	go func() {
		defer close(ch)
		if !send(ctx, ch, ListPorts()) {
			return
		}
		pollPorts(ctx, ch, interval)
	}()

	return ch
}

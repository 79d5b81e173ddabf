//go:build linux

package serial

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchPorts sends a ListPorts snapshot immediately and again whenever a tty
// appears in or vanishes from /dev. If inotify is unavailable it polls every
// interval instead. The channel is closed when ctx is done.
func WatchPorts(ctx context.Context, interval time.Duration) <-chan []PortRecord {
	ch := make(chan []PortRecord, 1)
	logger := slog.Default()

	go func() {
		defer close(ch)

		if !send(ctx, ch, ListPorts()) {
			return
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Debug("failed to create fsnotify watcher, polling", "error", err)
			pollPorts(ctx, ch, interval)
			return
		}
		defer func() { _ = watcher.Close() }()

		if err := watcher.Add(devDir); err != nil {
			logger.Debug("failed to watch device directory, polling", "dir", devDir, "error", err)
			pollPorts(ctx, ch, interval)
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(event.Name), "tty") {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
					continue
				}
				if !send(ctx, ch, ListPorts()) {
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("fsnotify error", "error", err)
			}
		}
	}()

	return ch
}

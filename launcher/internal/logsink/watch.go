package logsink

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDelay is how long Watch waits for the file to settle before
// reloading it. A plain save shows up as a truncate followed by a write,
// an atomic save as a create plus a rename; both collapse into one reload.
const ReloadDelay = 100 * time.Millisecond

// Watch reloads the config at path whenever it changes and passes the
// result to onChange, until ctx is cancelled. The parent directory is
// watched, so the file may be replaced or even briefly deleted. A reload
// that fails to parse is logged and skipped.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return watch(ctx, path, ReloadDelay, onChange)
}

func watch(ctx context.Context, path string, delay time.Duration, onChange func(*Config)) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	slog.Debug("logsink: watching for changes", "path", path)

	// Stopped until the first relevant event arms it.
	settle := time.NewTimer(delay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			settle.Reset(delay)

		case <-settle.C:
			cfg, err := Load(path)
			if err != nil {
				slog.Error("logsink: reload failed, keeping previous config", "path", path, "err", err)
				continue
			}
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("logsink: watcher error", "err", err)
		}
	}
}

// Watch reloads the backend's own config file until ctx is cancelled.
func (b *Backend) Watch(ctx context.Context) error {
	return Watch(ctx, b.path, b.Apply)
}

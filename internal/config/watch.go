package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the bursts of events editors produce when saving
// (create + write, or write + rename).
const debounce = 100 * time.Millisecond

// Watch reloads the config whenever the file changes and sends the
// result on the returned channel. The watcher follows the parent
// directory rather than the file itself, so atomic replace-on-save is
// picked up too. The channel closes when ctx is done.
func Watch(ctx context.Context) (<-chan Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan Config, 1)

	go func() {
		defer watcher.Close()
		defer close(out)

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(Path()) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					timer.Reset(debounce)
				}

			case <-fire:
				timer = nil
				fire = nil
				cfg, err := Load()
				if err != nil {
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

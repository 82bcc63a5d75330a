// Package watch reports changes to a single file, debounced.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the settle time before a change is reported.
const DefaultDebounce = 50 * time.Millisecond

// FileWatcher watches one file. The parent directory is watched instead of
// the file itself so that editors which save by renaming a temp file over
// the original are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan string
	log      zerolog.Logger
}

// NewFileWatcher starts watching path. Call Run to begin delivering changes.
func NewFileWatcher(path string, debounce time.Duration, log zerolog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		changes:  make(chan string, 1),
		log:      log.With().Str("cmp", "file-watcher").Str("path", abs).Logger(),
	}, nil
}

// Changes yields the watched path each time it settles after a write. A
// change that arrives while the previous one is unread is merged into it.
func (w *FileWatcher) Changes() <-chan string {
	return w.changes
}

// Run processes events until ctx is done or the watcher is closed. It closes
// Changes on return.
func (w *FileWatcher) Run(ctx context.Context) {
	defer close(w.changes)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Msg("file event")

			pending = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if !pending {
				continue
			}
			pending = false
			select {
			case w.changes <- w.path:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

// Close stops the underlying watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

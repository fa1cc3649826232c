// SPDX-License-Identifier: MIT

package modconf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher notifies a callback when the store's config file changes on
// disk, e.g. after a hand edit. It never touches store state itself;
// reacting, typically by calling Load, is the caller's decision, which
// keeps the Store free of internal locking.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	path     string
	onChange func()
	debounce time.Duration
}

// Watch starts watching the store's file and invokes onChange once
// writes have settled. The parent directory is watched rather than the
// file itself so atomic replaces and re-creations keep being observed.
// Cancel the context or call Stop to stop watching.
func Watch(ctx context.Context, s *Store, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		_ = fsw.Close() // Ignore close error in error path
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   s.logger,
		path:     filepath.Clean(s.path),
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}

	w.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", s.path).
		Msg("watching config file for changes")

	go w.loop(ctx)
	return w, nil
}

// loop is the main file watcher loop.
func (w *Watcher) loop(ctx context.Context) {
	// Debounce timer to avoid multiple callbacks for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().
					Str("event", "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.onChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop stops the watcher. It is safe to call after the context was
// already cancelled.
func (w *Watcher) Stop() {
	_ = w.watcher.Close() // Ignore close error in error path
}

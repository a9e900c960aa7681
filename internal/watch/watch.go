// Package watch re-runs a function whenever diagram sources in a directory change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"

	"github.com/alnah/go-diagram-sync/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes one directory, non-recursively.
type Watcher struct {
	Dir        string
	Extensions []string      // only files with these extensions trigger a run
	Debounce   time.Duration // zero means DefaultDebounce
	Logger     *log.Logger
}

// Run calls fn once, then again after every burst of changes to a matching
// file, until ctx is done. Calls never overlap. An error from fn is logged and
// watching goes on. Run returns an error only if the directory cannot be watched.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.run(ctx, fn, "start")

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		trigger string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger().Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			trigger = filepath.Base(event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn().Err(err).Msg("watch error")

		case <-fire:
			fire = nil
			w.run(ctx, fn, trigger)
		}
	}
}

func (w *Watcher) run(ctx context.Context, fn func(context.Context) error, trigger string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := fn(ctx); err != nil {
		w.logger().Error().Err(err).Str("trigger", trigger).Msg("sync failed")
		return
	}
	w.logger().Debug().Str("trigger", trigger).Dur("took", time.Since(start)).Msg("sync done")
}

// relevant reports whether event touches a source file. Renderer outputs
// written into the same directory are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(w.Extensions, filepath.Ext(event.Name))
}

func (w *Watcher) logger() *log.Logger {
	if w.Logger == nil {
		return logging.Discard()
	}
	return w.Logger
}

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// WatchMinInterval is the minimum time between two watch re-runs
	WatchMinInterval = time.Second
)

// Watch calls run every time the script or one of the fixture files in its
// directory changes, until ctx is done. Bursts of events are debounced and
// re-runs are throttled to one per WatchMinInterval. Errors returned by run
// are passed to onError and do not stop watching.
func Watch(ctx context.Context, script config.Script, run func() error, onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	fixtureDir := filepath.Clean(script.Dir)
	scriptPath := filepath.Clean(script.Name)

	dirs := map[string]bool{fixtureDir: true, filepath.Dir(scriptPath): true}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		if name == scriptPath {
			return true
		}
		if filepath.Dir(name) != fixtureDir {
			return false
		}
		return strings.HasSuffix(name, fixture.InputExt) || strings.HasSuffix(name, fixture.OutputExt)
	}

	limiter := rate.NewLimiter(rate.Every(WatchMinInterval), 1)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if relevant(event.Name) {
				debounce = time.After(WatchDebounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(fmt.Errorf("watcher error: %w", err))
			}

		case <-debounce:
			debounce = nil
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := run(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit on save.
var reloadDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes on disk and hands each valid
// configuration to onChange. Files that fail to load are reported through
// onError and the previous configuration stays in effect. The containing
// directory is watched so that atomic renames are observed. Watch blocks
// until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	if onChange == nil {
		return errors.New("onChange callback must not be nil")
	}
	if onError == nil {
		onError = func(error) {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	candidate := strings.TrimSpace(path)
	if candidate == "" {
		candidate = DefaultFileName
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return fmt.Errorf("resolve config path %q: %w", candidate, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(reloadDebounce)
			}
			fire = debounce.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("watch config: %w", err))
		case <-fire:
			fire = nil
			cfg, err := Load(candidate)
			if err != nil {
				onError(err)
				continue
			}
			onChange(cfg)
		}
	}
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const speciesReloadDebounce = 250 * time.Millisecond

// WatchSpeciesFile reloads table whenever the file at path changes. It blocks
// until ctx is cancelled. A file that fails to parse or validate is logged
// and the previous table stays in effect.
func WatchSpeciesFile(ctx context.Context, path string, table *SpeciesTable) error {
	if path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create species watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so editors that replace the file are still seen.
	dir := filepath.Dir(path)
	file := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch species directory: %w", err)
	}

	slog.InfoContext(ctx, "species config watcher started",
		slog.String("path", path),
	)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		species, err := ParseSpeciesFile(path)
		if err != nil {
			slog.WarnContext(ctx, "failed to reload species config",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return
		}
		if err := table.Replace(species); err != nil {
			slog.WarnContext(ctx, "rejected species config",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return
		}
		slog.InfoContext(ctx, "species config reloaded",
			slog.String("path", path),
			slog.Int("species_count", len(species)),
		)
	}
	debounce := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(speciesReloadDebounce, reload)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "species config watch error",
				slog.String("error", err.Error()),
			)
		}
	}
}

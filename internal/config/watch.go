package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path plus the extra files (the input
// logs) and calls onChange each time one of them is written. The config is
// re-read on every change so onChange always receives the current values.
// It runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and onChange is
// not called; the caller keeps its previous config. With an empty path only
// the extra files are watched and onChange receives nil.
//
// Directories are watched rather than files so that editors and log writers
// that replace a file via rename are still picked up.
func Watch(ctx context.Context, path string, extra []string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range append([]string{path}, extra...) {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return err
		}
	}

	slog.Info("config: watching for changes", "path", path, "inputs", extra)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}

			var cfg *Config
			if path != "" {
				cfg, err = Load(path)
				if err != nil {
					slog.Error("config: reload failed, keeping previous config",
						"path", path, "err", err)
					continue
				}
			}

			slog.Info("config: change detected", "file", event.Name)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

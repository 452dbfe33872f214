package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchSession calls onChange with the freshly loaded session (or its load
// error) whenever the session file is written, replaced or removed. The parent
// directory is watched so a file created after start is still seen.
func WatchSession(ctx context.Context, path string, onChange func(Session, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session watch: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("session watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				s, err := LoadSessionFrom(path)
				onChange(s, err)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("session watch: %v", err)
			}
		}
	}()
	return nil
}

package memory

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
)

// Watch reloads the data set at path every time it changes on disk and
// hands each copy that parses to reload. A broken file is logged and the
// records already loaded stay. The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, log *slog.Logger, reload func(*Dataset)) error {
	if log == nil {
		log = slog.Default()
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if expanded, err = filepath.Abs(expanded); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// editors tend to save by renaming over the file, which drops a watch
	// on the file itself
	if err := watcher.Add(filepath.Dir(expanded)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("unable to watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != expanded || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				ds, err := LoadFile(expanded)
				if err != nil {
					log.Warn("keeping previous demo data", "file", path, "error", err)
					continue
				}
				log.Info("reloaded demo data", "file", path)
				reload(ds)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("demo data watcher", "error", err)
			}
		}
	}()
	return nil
}

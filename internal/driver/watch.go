package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls run once, then again every time the file at path is written
// or replaced, until ctx is cancelled. Errors returned by run are logged and
// do not stop the watch.
//
// The directory is watched rather than the file so that editors that save
// by renaming a temporary file over path keep triggering runs.
func Watch(ctx context.Context, path string, run func() error) error {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	trigger := func() {
		if err := run(); err != nil {
			log.Warningf("run over %s failed: %s", path, err)
		}
	}

	trigger()
	log.Infof("watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debugf("%s: %s", ev.Op, ev.Name)
			trigger()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
}

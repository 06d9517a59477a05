package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/acure"
	"github.com/gogpu/acure/scene"
	"golang.org/x/sync/errgroup"
)

// newWatcher watches the directory of path. Editors often replace files
// with a rename, which a watch on the file itself would miss.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return w, nil
}

// watchLoop reloads the scene on every change and redraws it.
//
// One goroutine pushes: it reloads the file and replaces the commands of a.
// Another writes: it calls redraw with the latest surface options. Reloads
// that arrive while a frame is drawn are coalesced into one redraw.
// watchLoop returns when ctx is done or redraw fails.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, a *acure.Acure, redraw func(acure.SurfaceOptions) error) error {
	target := filepath.Clean(path)
	pending := make(chan acure.SurfaceOptions, 1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pending)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				sc, err := scene.Load(path)
				if err != nil {
					// Keep the last good frame until the file is fixed.
					acure.Logger().Warn("acure: reload failed", "err", err)
					continue
				}
				if err := sc.Apply(a); err != nil {
					acure.Logger().Warn("acure: reload failed", "err", err)
					continue
				}
				acure.Logger().Debug("acure: scene reloaded", "path", path, "commands", a.Len())
				select {
				case <-pending:
				default:
				}
				pending <- sc.SurfaceOptions()
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				acure.Logger().Warn("acure: watch error", "err", err)
			}
		}
	})

	g.Go(func() error {
		for opts := range pending {
			if err := redraw(opts); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

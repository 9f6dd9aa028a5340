package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors often save with several events in a row; wait this long after the
// last one before rendering.
const watchSettle = 150 * time.Millisecond

// watch re-renders a job whenever its input file is written or replaced,
// until ctx is cancelled. Directories are watched rather than files so that
// editors which save by rename keep triggering events.
func (r *runner) watch(ctx context.Context, jobs []job) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	byPath := make(map[string]job, len(jobs))
	dirs := make(map[string]bool)
	for _, j := range jobs {
		abs, err := filepath.Abs(j.input)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", j.input, err)
		}
		byPath[abs] = j
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	r.log.Info("watching for changes", "models", len(jobs))

	pending := make(map[string]job)
	timer := time.NewTimer(watchSettle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if j, ok := byPath[abs]; ok {
				pending[abs] = j
				timer.Reset(watchSettle)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watch error", "err", err)

		case <-timer.C:
			for path, j := range pending {
				delete(pending, path)
				r.log.Info("change detected", "model", filepath.Base(path))
				if err := r.renderJob(ctx, j, r.faceBar(j)); err != nil {
					// Keep watching; the next save may fix the file.
					r.log.Error("render failed", "model", filepath.Base(path), "err", err)
				}
			}
		}
	}
}

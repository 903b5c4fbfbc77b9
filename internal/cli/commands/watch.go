package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/eblint/pkg/easyconfig"
	"github.com/leapstack-labs/eblint/pkg/lint"
)

const watchDebounce = 100 * time.Millisecond

// watchLint lints paths once, then again after every burst of changes to a
// watched easyconfig, until ctx is done.
func watchLint(ctx context.Context, lr *lintRun, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	explicit := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			// Watch the directory so editors that replace files are seen.
			explicit[filepath.Clean(p)] = true
			if err := watcher.Add(filepath.Dir(p)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		if err := watchDir(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	relevant := func(name string) bool {
		return explicit[filepath.Clean(name)] || easyconfig.IsEasyconfig(name)
	}

	lr.relint(ctx, paths)
	lr.logger.Info("watching for changes", slog.Any("paths", paths))
	return watchLoop(ctx, watcher, relevant, func() { lr.relint(ctx, paths) })
}

// relint runs one watch iteration. Violations and file failures are reported
// but do not stop the watch.
func (lr *lintRun) relint(ctx context.Context, paths []string) {
	err := lr.lintPaths(ctx, paths)
	switch {
	case err == nil, errors.Is(err, lint.ErrViolations):
	case errors.Is(err, context.Canceled):
	default:
		lr.renderer.Error(err.Error())
	}
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop calls onChange once per debounced burst of relevant write or
// create events. It returns nil when ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, relevant func(string) bool, onChange func()) error {
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

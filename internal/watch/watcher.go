// Package watch reports changes to API documents so they can be regenerated
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by Start when the underlying watcher was closed
var ErrClosed = errors.New("watcher closed")

// FileWatcher watches directories for changes to files matching patterns
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// NewFileWatcher creates a new file watcher. Patterns and exclusions are
// matched against base names; a "**/" prefix is accepted and ignored, and a
// trailing "/" restricts an exclusion to directories.
func NewFileWatcher(patterns, exclude []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// AddDirectory recursively adds a directory to the watcher
func (fw *FileWatcher) AddDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && fw.excluded(path, true) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		fw.logger.Debug().Str("dir", path).Msg("watching directory")
		return nil
	})
}

// Start delivers change events until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return ErrClosed
			}

			if fw.shouldWatch(event.Name) {
				fw.onChange(event.Name, event.Op)
			}

			// New directories are watched as well
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !fw.excluded(event.Name, true) {
					if err := fw.AddDirectory(event.Name); err != nil {
						fw.logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
					}
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			fw.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// shouldWatch reports whether a changed file should trigger a change event
func (fw *FileWatcher) shouldWatch(path string) bool {
	if fw.excluded(path, false) {
		return false
	}
	for _, pattern := range fw.patterns {
		if match(pattern, path) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) excluded(path string, isDir bool) bool {
	for _, pattern := range fw.exclude {
		dirOnly := strings.HasSuffix(pattern, "/")
		if dirOnly && !isDir {
			continue
		}
		if match(strings.TrimSuffix(pattern, "/"), path) {
			return true
		}
	}
	return false
}

func match(pattern, path string) bool {
	pattern = strings.TrimPrefix(pattern, "**/")
	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match json document",
			patterns: []string{"*.json"},
			path:     "/project/openapi.json",
			want:     true,
		},
		{
			name:     "match nested yaml with ** pattern",
			patterns: []string{"**/*.yaml"},
			path:     "/project/api/v1/petstore.yaml",
			want:     true,
		},
		{
			name:     "exclude generated dump",
			patterns: []string{"*"},
			exclude:  []string{"*.src"},
			path:     "/project/server/lib.go.src",
			want:     false,
		},
		{
			name:     "directory exclusion does not apply to files",
			patterns: []string{"*.json"},
			exclude:  []string{"node_modules/"},
			path:     "/project/node_modules",
			want:     false,
		},
		{
			name:     "directory exclusion keeps matching files",
			patterns: []string{"*.json"},
			exclude:  []string{"schemas/"},
			path:     "/project/schemas.json",
			want:     true,
		},
		{
			name:     "no match",
			patterns: []string{"*.json", "*.yaml", "*.yml"},
			path:     "/project/readme.md",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &FileWatcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}

			assert.Equal(t, tt.want, fw.shouldWatch(tt.path))
		})
	}
}

func TestFileWatcher_AddDirectory(t *testing.T) {
	// Test: excluded directories and everything below them are not watched
	tmpDir := t.TempDir()
	for _, dir := range []string{"api", "api/v1", "node_modules/pkg", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, dir), 0755))
	}

	fw, err := NewFileWatcher([]string{"*.json"}, []string{"node_modules/", ".git/"}, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(tmpDir))

	assert.ElementsMatch(t, []string{
		tmpDir,
		filepath.Join(tmpDir, "api"),
		filepath.Join(tmpDir, "api", "v1"),
	}, fw.watcher.WatchList())
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()

	var mu sync.Mutex
	seen := make(map[string]bool)
	onChange := func(path string, op fsnotify.Op) {
		mu.Lock()
		defer mu.Unlock()
		seen[filepath.Base(path)] = true
	}

	fw, err := NewFileWatcher([]string{"*.json", "*.yaml"}, []string{"*.src"}, onChange, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fw.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "openapi.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "lib.go.src"), []byte("package server"), 0644))

	// New directories are picked up
	nested := filepath.Join(tmpDir, "v2")
	require.NoError(t, os.MkdirAll(nested, 0755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(nested, "petstore.yaml"), []byte("paths: {}"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["openapi.json"] && seen["petstore.yaml"]
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.False(t, seen["lib.go.src"])
	mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.json"}, nil, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())

	// A closed watcher ends Start
	assert.ErrorIs(t, fw.Start(context.Background()), ErrClosed)
}

func TestDebounce_CoalescesBursts(t *testing.T) {
	changes := make(chan string)
	var calls [][]string

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Debounce(ctx, changes, 50*time.Millisecond, func(_ context.Context, paths []string) error {
			calls = append(calls, paths)
			return nil
		})
	}()

	changes <- "b.json"
	changes <- "a.json"
	changes <- "b.json"
	time.Sleep(200 * time.Millisecond)
	changes <- "c.yaml"
	time.Sleep(200 * time.Millisecond)
	close(changes)

	require.NoError(t, <-done)
	assert.Equal(t, [][]string{{"a.json", "b.json"}, {"c.yaml"}}, calls)
}

func TestDebounce_StopsOnError(t *testing.T) {
	changes := make(chan string, 1)
	boom := errors.New("boom")

	changes <- "openapi.json"
	err := Debounce(context.Background(), changes, time.Millisecond, func(context.Context, []string) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestDebounce_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Debounce(ctx, make(chan string), time.Second, func(context.Context, []string) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/oasgen/internal/config"
	"github.com/okra-platform/oasgen/internal/watch"
)

// WatchCommand regenerates whenever the document or the configuration changes
type WatchCommand struct {
	generate *GenerateCommand
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(flags *Flags) *WatchCommand {
	return &WatchCommand{generate: NewGenerateCommand(flags)}
}

// Execute generates once, then again after every change until ctx is done
func (wc *WatchCommand) Execute(ctx context.Context) error {
	settings, err := wc.generate.Settings()
	if err != nil {
		return err
	}

	logger := wc.generate.deps.Logger
	out := wc.generate.deps.Output

	out.Printf("👀 Watching %s\n", settings.Document)
	wc.regenerate(ctx, settings)

	changes := make(chan string, 16)
	onChange := func(path string, op fsnotify.Op) {
		logger.Debug().Str("file", path).Str("op", op.String()).Msg("change detected")
		select {
		case changes <- path:
		default:
			// a regeneration is already pending
		}
	}

	patterns := []string{filepath.Base(settings.Document), config.FileName}
	fw, err := watch.NewFileWatcher(patterns, settings.Exclude, onChange, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range watchDirs(settings) {
		if err := fw.AddDirectory(dir); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fw.Start(ctx)
	})
	g.Go(func() error {
		return watch.Debounce(ctx, changes, settings.Debounce, func(ctx context.Context, paths []string) error {
			next, err := wc.generate.Settings()
			if err != nil {
				logger.Error().Err(err).Msg("failed to reload settings")
				return nil
			}
			out.Printf("🔄 %d file(s) changed, regenerating\n", len(paths))
			wc.regenerate(ctx, next)
			return nil
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}
	out.Println("👋 Stopped watching")
	return nil
}

// regenerate runs one generation and reports failures without stopping the watch
func (wc *WatchCommand) regenerate(ctx context.Context, settings *Settings) {
	summary, err := wc.generate.Run(ctx, settings)
	if err != nil {
		wc.generate.deps.Logger.Error().Err(err).Msg("generation failed")
		wc.generate.deps.Output.Printf("❌ %v\n", err)
		return
	}
	wc.generate.report(settings, summary)
}

// watchDirs returns the directory of the document and, when different, the project root
func watchDirs(settings *Settings) []string {
	docDir := filepath.Dir(settings.Document)
	if settings.Root == "" || settings.Root == docDir {
		return []string{docDir}
	}
	return []string{docDir, settings.Root}
}

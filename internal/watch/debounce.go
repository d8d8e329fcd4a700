package watch

import (
	"context"
	"sort"
	"time"
)

// Debounce collects changed paths and calls fn once no change arrived for
// wait. It returns when ctx is done, when changes is closed, or with the
// first error fn returns.
func Debounce(ctx context.Context, changes <-chan string, wait time.Duration, fn func(ctx context.Context, paths []string) error) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(wait)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path, ok := <-changes:
			if !ok {
				return nil
			}
			pending[path] = true
			timer.Reset(wait)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)

			if err := fn(ctx, paths); err != nil {
				return err
			}
		}
	}
}

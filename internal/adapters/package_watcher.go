package adapters

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/ports"
)

const defaultWatchDebounce = 500 * time.Millisecond

// PackageWatcherAdapter watches a flat package directory. Events are
// collected until the directory has been quiet for Debounce and then
// handed over in one sorted batch.
type PackageWatcherAdapter struct {
	Pattern  string
	Debounce time.Duration
}

func NewPackageWatcherAdapter(pattern string, debounce time.Duration) PackageWatcherAdapter {
	if pattern == "" {
		pattern = "*.deb"
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return PackageWatcherAdapter{Pattern: pattern, Debounce: debounce}
}

// Watch blocks until ctx is canceled.
func (a PackageWatcherAdapter) Watch(ctx context.Context, dir string, onChange func(ctx context.Context, paths []string)) error {
	if !doublestar.ValidatePattern(a.Pattern) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid watch pattern " + a.Pattern)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("watch directory not found").
			WithCause(err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create file watcher").
			WithCause(err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to watch directory").
			WithCause(err)
	}

	logger := log.Ctx(ctx)
	pending := map[string]struct{}{}
	timer := time.NewTimer(a.Debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("file watcher event channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if matched, _ := doublestar.Match(a.Pattern, filepath.Base(event.Name)); !matched {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(a.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("file watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("file watcher error")
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			onChange(ctx, changed)
		}
	}
}

var _ ports.PackageWatcherPort = PackageWatcherAdapter{}

package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/adapters"
	"appstream-builder/internal/types"
)

// Watch rebuilds every package archive that appears or changes in
// req.Dir until ctx is canceled. Builds run one at a time on the watch
// loop; report receives each package result.
func (s Service) Watch(ctx context.Context, req WatchRequest, report func(types.PackageResult)) error {
	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("watch directory is required")
	}
	emitHints(checkConfigHints(s.Config))
	watcher := s.Watcher
	if req.Pattern != "" || req.Debounce > 0 || watcher == nil {
		watcher = adapters.NewPackageWatcherAdapter(req.Pattern, req.Debounce)
	}
	log.Ctx(ctx).Info().Str("dir", dir).Msg("watching for packages")
	return watcher.Watch(ctx, dir, func(ctx context.Context, paths []string) {
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			result, err := s.BuildPackage(ctx, path)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("package build failed")
			}
			if report != nil {
				report(result)
			}
		}
	})
}

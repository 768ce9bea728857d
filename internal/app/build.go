package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/core"
	"appstream-builder/internal/policies"
	"appstream-builder/internal/shared"
	"appstream-builder/internal/types"
)

// Build processes packages one after another. Without KeepGoing the first
// package that cannot be extracted stops the run.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	if len(req.Packages) == 0 {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one package is required")
	}
	emitHints(checkConfigHints(s.Config))
	var result BuildResult
	for _, path := range req.Packages {
		if ctx.Err() != nil {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("build canceled").
				WithCause(ctx.Err())
		}
		pkgResult, err := s.BuildPackage(ctx, path)
		result.Packages = append(result.Packages, pkgResult)
		if err != nil {
			if !req.KeepGoing {
				return result, err
			}
			log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("package failed, continuing")
		}
	}
	return result, nil
}

// BuildPackage turns one package archive into a catalog fragment and icon
// archive.
func (s Service) BuildPackage(ctx context.Context, path string) (types.PackageResult, error) {
	pkg, err := s.Packages.Identify(path)
	if err != nil {
		return types.PackageResult{
			Package: types.PackageInfo{Path: path},
			Status:  types.PackageStatusExtractFailed,
			Err:     err,
		}, err
	}
	logger := log.Ctx(ctx).With().Str("package", pkg.Name).Logger()
	ctx = logger.WithContext(ctx)
	result := types.PackageResult{Package: pkg}

	if pattern, ok := policies.NewPatternList(s.Config.PackageBlacklist).Match(pkg.Name); ok {
		logger.Info().Str("pattern", pattern).Msg("package is blacklisted")
		result.Status = types.PackageStatusBlacklisted
		return result, nil
	}

	files, err := s.stage(ctx, pkg)
	if !s.Config.Debug {
		defer func() {
			if err := s.Workspace.Cleanup(); err != nil {
				logger.Warn().Err(err).Msg("failed to clean staging")
			}
		}()
	}
	if err != nil {
		logger.Error().Err(err).Msg("cannot extract package")
		result.Status = types.PackageStatusExtractFailed
		result.Err = err
		return result, err
	}

	session := core.NewSession()
	acceptance := core.NewAcceptancePolicy(
		s.Config.IDBlacklist,
		core.NewOverrideMerger(s.Overrides, s.Validator, s.Config.ContentLicences),
		s.ScreenshotOverrides,
	)
	if s.isCodecPackage(pkg.Name) {
		app, ok, err := s.Codecs.ParsePackage(ctx, pkg, files)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to parse codec package")
		} else if ok {
			s.admit(ctx, acceptance, session, app)
		}
	} else {
		for _, file := range files {
			app, ok := s.parseFile(ctx, pkg, file)
			if ok {
				s.admit(ctx, acceptance, session, app)
			}
		}
	}

	emitted, err := core.NewCatalogEmitter(s.Catalog, s.Screenshots, s.Icons, s.Workspace.IconDir()).Emit(ctx, session, pkg.Name)
	result.Accepted = session.AcceptedIDs()
	result.Rejected = session.Rejected()
	if err != nil {
		return result, err
	}
	result.Status = types.PackageStatusEmpty
	if emitted.Written {
		result.Status = types.PackageStatusBuilt
		result.CatalogPath = emitted.CatalogPath
		result.IconArchivePath = emitted.IconArchivePath
	}
	return result, nil
}

// stage prepares the working layout, extracts the package and its
// companions and lists the interesting files.
func (s Service) stage(ctx context.Context, pkg types.PackageInfo) ([]types.ExtractedFile, error) {
	if err := s.Workspace.Prepare(s.Config.ThumbnailSizes); err != nil {
		return nil, err
	}
	if err := s.Workspace.ResetStaging(); err != nil {
		return nil, err
	}
	staging := s.Workspace.StagingDir()
	wildcards := extractWildcards(s.Config)
	if err := s.Extractor.Extract(ctx, pkg, staging, wildcards); err != nil {
		return nil, err
	}

	for _, glob := range policies.NewCompanionPolicy(s.Config.PackageData).Companions(pkg.Name) {
		paths, err := s.Companions.FindCompanions(glob)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			companion, err := s.Packages.Identify(path)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable companion package")
				continue
			}
			log.Ctx(ctx).Info().Str("companion", companion.Name).Msg("adding extra package")
			if err := s.Extractor.Extract(ctx, companion, staging, wildcards); err != nil {
				return nil, err
			}
		}
	}
	return listInterestingFiles(staging, s.Config.InterestingFiles)
}

func (s Service) isCodecPackage(name string) bool {
	patterns := s.Config.CodecPackages
	if len(patterns) == 0 {
		patterns = []string{"gstreamer*"}
	}
	_, ok := policies.NewPatternList(patterns).Match(name)
	return ok
}

// parseFile dispatches a staged file to the parser for its content type.
// Every failure here only skips the file.
func (s Service) parseFile(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool) {
	logger := log.Ctx(ctx).With().Str("file", file.RelPath).Logger()
	logger.Debug().Msg("reading file")
	contentType, err := s.ContentTypes.Detect(file.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to detect content type")
		return types.Application{}, false
	}
	if contentType == types.ContentTypeSymlink {
		return types.Application{}, false
	}
	parser, ok := s.Parsers.Lookup(contentType)
	if !ok {
		logger.Info().Str("content_type", string(contentType)).Msg("content type not supported")
		return types.Application{}, false
	}
	app, ok, err := parser.Parse(ctx, pkg, file)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to parse file")
		return types.Application{}, false
	}
	if !ok {
		return types.Application{}, false
	}
	if app.ID == "" {
		app.SetIDFromFilename(file.Path)
	}
	return app, true
}

func (s Service) admit(ctx context.Context, acceptance core.AcceptancePolicy, session *core.Session, app types.Application) {
	logger := log.Ctx(ctx).With().Str("app_id", app.ID).Logger()
	decision := acceptance.Evaluate(logger.WithContext(ctx), &app, session)
	if decision.Accepted {
		logger.Info().Msg("application accepted")
		return
	}
	logger.Info().Str("reason", string(decision.Reason)).Msg("application rejected")
}

// listInterestingFiles matches patterns rooted at the staging directory
// and returns the regular files and symlinks found, sorted and without
// duplicates.
func listInterestingFiles(stagingDir string, patterns []string) ([]types.ExtractedFile, error) {
	fsys := os.DirFS(stagingDir)
	var matches []string
	for _, pattern := range patterns {
		pattern = shared.NormalizeArchivePath(pattern)
		if pattern == "" || pattern == "." {
			continue
		}
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid interesting file pattern " + pattern).
				WithCause(err)
		}
		matches = append(matches, found...)
	}
	slices.Sort(matches)
	matches = slices.Compact(matches)

	files := make([]types.ExtractedFile, 0, len(matches))
	for _, rel := range matches {
		path := filepath.Join(stagingDir, filepath.FromSlash(rel))
		info, err := os.Lstat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, types.ExtractedFile{Path: path, RelPath: strings.TrimPrefix(rel, "./")})
	}
	return files, nil
}

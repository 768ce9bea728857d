package app

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"appstream-builder/internal/adapters"
	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

type Service struct {
	Config              types.BuildConfig
	Packages            ports.PackageReaderPort
	Extractor           ports.ExtractorPort
	Companions          ports.CompanionSourcePort
	ContentTypes        ports.ContentTypePort
	Parsers             ports.ParserLookupPort
	Codecs              ports.PackageParserPort
	Workspace           ports.WorkspacePort
	Overrides           ports.OverrideStorePort
	Validator           ports.SidecarValidatorPort
	ScreenshotOverrides ports.ScreenshotOverridePort
	Catalog             ports.CatalogWriterPort
	CatalogReader       ports.CatalogReaderPort
	Screenshots         ports.ScreenshotStorePort
	Icons               ports.IconStorePort
	Cache               ports.CacheStorePort
	Watcher             ports.PackageWatcherPort
	Clock               func() time.Time
}

func NewService(cfg types.BuildConfig) Service {
	workspace := adapters.NewWorkspaceAdapter(cfg.WorkDir)
	icons := adapters.NewIconStoreAdapter(workspace.StagingDir(), workspace.IconDir())
	catalog := adapters.NewCatalogFileAdapter(cfg.OutputDir)

	helper := ""
	if !cfg.Debug {
		helper = executablePath(cfg.ExtractHelper)
	}
	var validator ports.SidecarValidatorPort
	if command := executablePath(cfg.AppDataValidator); command != "" {
		validator = adapters.NewAppDataValidatorAdapter(command)
	}

	return Service{
		Config:              cfg,
		Packages:            adapters.NewPackageFileAdapter(),
		Extractor:           adapters.NewDebExtractorAdapter(helper),
		Companions:          adapters.NewCompanionDirAdapter(cfg.CompanionDir),
		ContentTypes:        adapters.NewContentTypeAdapter(),
		Parsers:             adapters.NewDefaultParserRegistry(icons),
		Codecs:              adapters.NewCodecParser(),
		Workspace:           workspace,
		Overrides:           adapters.NewAppDataFileAdapter(workspace.StagingDir(), cfg.AppDataExtraDir),
		Validator:           validator,
		ScreenshotOverrides: adapters.NewScreenshotOverrideDirAdapter(cfg.ScreenshotsExtraDir),
		Catalog:             catalog,
		CatalogReader:       catalog,
		Screenshots: adapters.NewScreenshotStoreAdapter(
			workspace.CacheDir(),
			workspace.ScreenshotsDir(),
			cfg.ScreenshotMirrorURL,
			cfg.ThumbnailSizes,
			cfg.HTTPTimeoutSec,
			cfg.HTTPRetries,
			cfg.HTTPRetryDelayMs,
		),
		Icons:   icons,
		Cache:   adapters.NewScreenshotCacheAdapter(workspace.CacheDir()),
		Watcher: adapters.NewPackageWatcherAdapter("*.deb", 0),
		Clock:   time.Now,
	}
}

// executablePath returns command when it names an existing file or a
// program on PATH, and an empty string otherwise.
func executablePath(command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}
	if strings.Contains(command, "/") {
		info, err := os.Stat(command)
		if err != nil || info.IsDir() {
			return ""
		}
		return command
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return ""
	}
	return path
}

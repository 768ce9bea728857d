package app

import "appstream-builder/internal/types"

// DefaultBuildConfig returns the configuration used when no config file
// overrides a key.
func DefaultBuildConfig() types.BuildConfig {
	return types.BuildConfig{
		ContentLicences: []string{
			"CC0",
			"CC0-1.0",
			"CC-BY",
			"CC-BY-3.0",
			"CC-BY-4.0",
			"CC-BY-SA",
			"CC-BY-SA-3.0",
			"CC-BY-SA-4.0",
			"GFDL",
			"FSFAP",
			"MIT",
		},
		InterestingFiles: []string{
			"/usr/share/applications/*.desktop",
			"/usr/share/applications/kde4/*.desktop",
			"/usr/share/fonts/**/*.ttf",
			"/usr/share/fonts/**/*.otf",
			"/usr/share/ibus/component/*.xml",
			"/usr/share/ibus-table/tables/*.db",
			"/usr/lib/**/gstreamer-1.0/libgst*.so",
		},
		ExtractWildcards: []string{
			"./usr/share/applications/*.desktop",
			"./usr/share/applications/kde4/*.desktop",
			"./usr/share/appdata/*.xml",
			"./usr/share/icons/hicolor/*/apps/*",
			"./usr/share/pixmaps/*.*",
			"./usr/share/icons/*.*",
			"./usr/share/*/images/*",
			"./usr/share/fonts/**/*.ttf",
			"./usr/share/fonts/**/*.otf",
			"./usr/share/ibus/component/*.xml",
			"./usr/share/ibus-table/tables/*.db",
			"./usr/lib/**/gstreamer-1.0/libgst*.so",
		},
		DebugWildcards: []string{"./**/*.*"},
		ThumbnailSizes: []types.ImageSize{
			{Width: 624, Height: 351},
			{Width: 112, Height: 63},
			{Width: 752, Height: 423},
		},
		CodecPackages:       []string{"gstreamer*"},
		ExtractHelper:       "../extract-package",
		AppDataValidator:    "/usr/bin/appdata-validate",
		AppDataExtraDir:     "../appdata-extra",
		ScreenshotsExtraDir: "../screenshots-extra",
		CompanionDir:        "./packages",
		OutputDir:           "./appstream",
		WorkDir:             ".",
		HTTPTimeoutSec:      60,
		HTTPRetries:         3,
		HTTPRetryDelayMs:    200,
	}
}

// extractWildcards widens the production set in debug mode.
func extractWildcards(cfg types.BuildConfig) []string {
	wildcards := append([]string(nil), cfg.ExtractWildcards...)
	if cfg.Debug {
		wildcards = append(wildcards, cfg.DebugWildcards...)
	}
	return wildcards
}

package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"appstream-builder/internal/types"
)

// checkConfigHints returns hints for settings that silently disable part
// of the pipeline.
func checkConfigHints(cfg types.BuildConfig) []string {
	checks := []struct {
		key     string
		problem bool
		message string
	}{
		{
			key:     "extract_helper",
			problem: cfg.Debug && strings.TrimSpace(cfg.ExtractHelper) != "",
			message: "is ignored while debug is enabled",
		},
		{
			key:     "extract_helper",
			problem: !cfg.Debug && strings.TrimSpace(cfg.ExtractHelper) != "" && executablePath(cfg.ExtractHelper) == "",
			message: "was not found; packages are read natively",
		},
		{
			key:     "appdata_validator",
			problem: strings.TrimSpace(cfg.AppDataValidator) != "" && executablePath(cfg.AppDataValidator) == "",
			message: "was not found; AppData files are not validated",
		},
		{
			key:     "appdata_extra_dir",
			problem: !isDir(cfg.AppDataExtraDir),
			message: "does not exist; only package AppData files are used",
		},
		{
			key:     "screenshots_extra_dir",
			problem: !isDir(cfg.ScreenshotsExtraDir),
			message: "does not exist; no screenshot overrides are applied",
		},
		{
			key:     "screenshot_mirror_url",
			problem: strings.TrimSpace(cfg.ScreenshotMirrorURL) == "",
			message: "is empty; catalog screenshot URLs are relative",
		},
		{
			key:     "screenshot_thumbnail_sizes",
			problem: len(cfg.ThumbnailSizes) == 0,
			message: "is empty; only source screenshots are mirrored",
		},
	}

	var hints []string
	for _, c := range checks {
		if c.problem {
			hints = append(hints, fmt.Sprintf("hint: %s %s", c.key, c.message))
		}
	}
	return hints
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}

func isDir(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func sortedKeys[V any](input map[string]V) []string {
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package app

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"

	"appstream-builder/internal/shared"
)

// ValidateConfig checks the effective configuration without touching any
// package and returns advisory hints for settings that are legal but
// probably unintended.
func (s Service) ValidateConfig() (ValidateResult, error) {
	cfg := s.Config
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return ValidateResult{}, invalidConfig("output directory is required")
	}
	if strings.TrimSpace(cfg.WorkDir) == "" {
		return ValidateResult{}, invalidConfig("work directory is required")
	}
	if len(cfg.ContentLicences) == 0 {
		return ValidateResult{}, invalidConfig("content_licences must list at least one licence")
	}
	if len(cfg.InterestingFiles) == 0 {
		return ValidateResult{}, invalidConfig("interesting_files must list at least one pattern")
	}
	for _, size := range cfg.ThumbnailSizes {
		if size.Width <= 0 || size.Height <= 0 {
			return ValidateResult{}, invalidConfig(fmt.Sprintf("invalid thumbnail size %s", size))
		}
	}
	pathPatterns := map[string][]string{
		"interesting_files": cfg.InterestingFiles,
		"extract_wildcards": cfg.ExtractWildcards,
		"debug_wildcards":   cfg.DebugWildcards,
	}
	for _, key := range sortedKeys(pathPatterns) {
		for _, pattern := range pathPatterns[key] {
			if !doublestar.ValidatePattern(shared.NormalizeArchivePath(pattern)) {
				return ValidateResult{}, invalidConfig(fmt.Sprintf("invalid %s pattern %q", key, pattern))
			}
		}
	}
	namePatterns := map[string][]string{
		"id_blacklist":      cfg.IDBlacklist,
		"package_blacklist": cfg.PackageBlacklist,
		"codec_packages":    cfg.CodecPackages,
	}
	for _, rule := range cfg.PackageData {
		namePatterns["package_data"] = append(namePatterns["package_data"], rule.Package, rule.Companion)
	}
	for _, key := range sortedKeys(namePatterns) {
		for _, pattern := range namePatterns[key] {
			if _, err := glob.Compile(pattern); err != nil {
				return ValidateResult{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid %s pattern %q", key, pattern)).
					WithCause(err)
			}
		}
	}
	if cfg.HTTPTimeoutSec < 0 || cfg.HTTPRetries < 0 || cfg.HTTPRetryDelayMs < 0 {
		return ValidateResult{}, invalidConfig("http settings must not be negative")
	}
	return ValidateResult{Hints: checkConfigHints(cfg)}, nil
}

func invalidConfig(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

package cli

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"appstream-builder/internal/app"
	"appstream-builder/internal/types"
)

// legacyDebugEnv is the historical switch for debug builds. Any non-empty
// value turns debug on, including values ParseBool rejects.
const legacyDebugEnv = "APPSTREAM_DEBUG"

func registerDefaults(v *viper.Viper) {
	defaults := app.DefaultBuildConfig()
	v.SetDefault("id_blacklist", defaults.IDBlacklist)
	v.SetDefault("package_blacklist", defaults.PackageBlacklist)
	v.SetDefault("content_licences", defaults.ContentLicences)
	v.SetDefault("interesting_files", defaults.InterestingFiles)
	v.SetDefault("extract_wildcards", defaults.ExtractWildcards)
	v.SetDefault("debug_wildcards", defaults.DebugWildcards)
	v.SetDefault("screenshot_thumbnail_sizes", sizeStrings(defaults.ThumbnailSizes))
	v.SetDefault("codec_packages", defaults.CodecPackages)
	v.SetDefault("extract_helper", defaults.ExtractHelper)
	v.SetDefault("appdata_validator", defaults.AppDataValidator)
	v.SetDefault("appdata_extra_dir", defaults.AppDataExtraDir)
	v.SetDefault("screenshots_extra_dir", defaults.ScreenshotsExtraDir)
	v.SetDefault("companion_dir", defaults.CompanionDir)
	v.SetDefault("output", defaults.OutputDir)
	v.SetDefault("work_dir", defaults.WorkDir)
	v.SetDefault("screenshot_mirror_url", defaults.ScreenshotMirrorURL)
	v.SetDefault("http_timeout_sec", defaults.HTTPTimeoutSec)
	v.SetDefault("http_retries", defaults.HTTPRetries)
	v.SetDefault("http_retry_delay_ms", defaults.HTTPRetryDelayMs)
}

// loadBuildConfig reads the effective configuration from viper.
func loadBuildConfig(v *viper.Viper) (types.BuildConfig, error) {
	cfg := types.BuildConfig{
		IDBlacklist:         v.GetStringSlice("id_blacklist"),
		PackageBlacklist:    v.GetStringSlice("package_blacklist"),
		ContentLicences:     v.GetStringSlice("content_licences"),
		InterestingFiles:    v.GetStringSlice("interesting_files"),
		ExtractWildcards:    v.GetStringSlice("extract_wildcards"),
		DebugWildcards:      v.GetStringSlice("debug_wildcards"),
		CodecPackages:       v.GetStringSlice("codec_packages"),
		ExtractHelper:       v.GetString("extract_helper"),
		AppDataValidator:    v.GetString("appdata_validator"),
		AppDataExtraDir:     v.GetString("appdata_extra_dir"),
		ScreenshotsExtraDir: v.GetString("screenshots_extra_dir"),
		CompanionDir:        v.GetString("companion_dir"),
		OutputDir:           v.GetString("output"),
		WorkDir:             v.GetString("work_dir"),
		ScreenshotMirrorURL: v.GetString("screenshot_mirror_url"),
		HTTPTimeoutSec:      v.GetInt("http_timeout_sec"),
		HTTPRetries:         v.GetInt("http_retries"),
		HTTPRetryDelayMs:    v.GetInt("http_retry_delay_ms"),
		Debug:               v.GetBool("debug") || os.Getenv(legacyDebugEnv) != "",
	}
	for _, value := range v.GetStringSlice("screenshot_thumbnail_sizes") {
		size, err := types.ParseImageSize(value)
		if err != nil {
			return types.BuildConfig{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid screenshot_thumbnail_sizes entry").
				WithCause(err)
		}
		cfg.ThumbnailSizes = append(cfg.ThumbnailSizes, size)
	}
	if err := v.UnmarshalKey("package_data", &cfg.PackageData); err != nil {
		return types.BuildConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid package_data").
			WithCause(err)
	}
	return cfg, nil
}

func sizeStrings(sizes []types.ImageSize) []string {
	out := make([]string, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, size.String())
	}
	return out
}

func newAppService() (app.Service, error) {
	cfg, err := loadBuildConfig(viper.GetViper())
	if err != nil {
		return app.Service{}, err
	}
	return app.NewService(cfg), nil
}

// configView is the YAML shape of the effective configuration.
type configView struct {
	types.BuildConfig `yaml:",inline"`
	ThumbnailSizes    []string `yaml:"screenshot_thumbnail_sizes"`
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadBuildConfig(viper.GetViper())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(configView{BuildConfig: cfg, ThumbnailSizes: sizeStrings(cfg.ThumbnailSizes)})
			if err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to render config").
					WithCause(err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

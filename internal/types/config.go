package types

import (
	"fmt"
	"strconv"
	"strings"
)

// CompanionRule pulls companion packages whose file name matches
// Companion into the staging tree of every package matching Package.
type CompanionRule struct {
	Package   string `yaml:"package" mapstructure:"package"`
	Companion string `yaml:"companion" mapstructure:"companion"`
}

type ImageSize struct {
	Width  int
	Height int
}

func (s ImageSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseImageSize parses a "<W>x<H>" size.
func ParseImageSize(value string) (ImageSize, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(value)), "x")
	if len(parts) != 2 {
		return ImageSize{}, fmt.Errorf("invalid image size %q", value)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || width <= 0 {
		return ImageSize{}, fmt.Errorf("invalid image width %q", value)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || height <= 0 {
		return ImageSize{}, fmt.Errorf("invalid image height %q", value)
	}
	return ImageSize{Width: width, Height: height}, nil
}

// BuildConfig is the full set of options one build run is driven by.
type BuildConfig struct {
	IDBlacklist      []string        `yaml:"id_blacklist"`
	PackageBlacklist []string        `yaml:"package_blacklist"`
	ContentLicences  []string        `yaml:"content_licences"`
	InterestingFiles []string        `yaml:"interesting_files"`
	ExtractWildcards []string        `yaml:"extract_wildcards"`
	DebugWildcards   []string        `yaml:"debug_wildcards"`
	ThumbnailSizes   []ImageSize     `yaml:"-"`
	PackageData      []CompanionRule `yaml:"package_data"`
	CodecPackages    []string        `yaml:"codec_packages"`

	ExtractHelper       string `yaml:"extract_helper"`
	AppDataValidator    string `yaml:"appdata_validator"`
	AppDataExtraDir     string `yaml:"appdata_extra_dir"`
	ScreenshotsExtraDir string `yaml:"screenshots_extra_dir"`
	CompanionDir        string `yaml:"companion_dir"`
	OutputDir           string `yaml:"output"`
	WorkDir             string `yaml:"work_dir"`
	ScreenshotMirrorURL string `yaml:"screenshot_mirror_url"`

	HTTPTimeoutSec   int `yaml:"http_timeout_sec"`
	HTTPRetries      int `yaml:"http_retries"`
	HTTPRetryDelayMs int `yaml:"http_retry_delay_ms"`

	Debug bool `yaml:"debug"`
}

package adapters

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// ScreenshotStoreAdapter mirrors screenshots. Remote sources are cached
// under CacheDir by URL hash; every image is written as PNG to
// "<ScreenshotsDir>/source" plus one "<W>x<H>" thumbnail directory per
// configured size, and listed under MirrorURL.
type ScreenshotStoreAdapter struct {
	CacheDir       string
	ScreenshotsDir string
	MirrorURL      string
	Sizes          []types.ImageSize
	http           httpRetryConfig
}

func NewScreenshotStoreAdapter(cacheDir string, screenshotsDir string, mirrorURL string, sizes []types.ImageSize, timeoutSec int, retries int, retryDelayMs int) ScreenshotStoreAdapter {
	return ScreenshotStoreAdapter{
		CacheDir:       cacheDir,
		ScreenshotsDir: screenshotsDir,
		MirrorURL:      strings.TrimRight(mirrorURL, "/"),
		Sizes:          sizes,
		http:           normalizeHTTPConfig(timeoutSec, retries, retryDelayMs),
	}
}

// Publish returns the screenshots that could be mirrored. A source that
// cannot be fetched or decoded is logged and left out.
func (a ScreenshotStoreAdapter) Publish(ctx context.Context, app types.Application) ([]types.Screenshot, error) {
	var screenshots []types.Screenshot
	for _, source := range app.Screenshots {
		if ctx.Err() != nil {
			return screenshots, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("screenshot publishing canceled").
				WithCause(ctx.Err())
		}
		screenshot, err := a.publishOne(ctx, app.ID, source)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("screenshot", source.String()).Msg("failed to add screenshot")
			continue
		}
		screenshot.Kind = "normal"
		if len(screenshots) == 0 {
			screenshot.Kind = "default"
		}
		screenshots = append(screenshots, screenshot)
	}
	return screenshots, nil
}

func (a ScreenshotStoreAdapter) publishOne(ctx context.Context, id string, source types.ScreenshotSource) (types.Screenshot, error) {
	data, err := a.load(ctx, source)
	if err != nil {
		return types.Screenshot{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return types.Screenshot{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode screenshot").
			WithCause(err)
	}
	sum := sha256.Sum256(data)
	name := id + "-" + hex.EncodeToString(sum[:])[:16] + ".png"

	bounds := img.Bounds()
	if err := writePNG(filepath.Join(a.ScreenshotsDir, "source", name), img); err != nil {
		return types.Screenshot{}, err
	}
	screenshot := types.Screenshot{Images: []types.ScreenshotImage{{
		Type:   "source",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		URL:    a.mirrorURL("source", name),
	}}}
	for _, size := range a.Sizes {
		if err := writePNG(filepath.Join(a.ScreenshotsDir, size.String(), name), fitImage(img, size.Width, size.Height)); err != nil {
			return types.Screenshot{}, err
		}
		screenshot.Images = append(screenshot.Images, types.ScreenshotImage{
			Type:   "thumbnail",
			Width:  size.Width,
			Height: size.Height,
			URL:    a.mirrorURL(size.String(), name),
		})
	}
	return screenshot, nil
}

func (a ScreenshotStoreAdapter) load(ctx context.Context, source types.ScreenshotSource) ([]byte, error) {
	if !source.IsRemote() {
		data, err := os.ReadFile(source.Path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read screenshot").
				WithCause(err)
		}
		return data, nil
	}
	sum := sha256.Sum256([]byte(source.URL))
	cachePath := filepath.Join(a.CacheDir, hex.EncodeToString(sum[:]))
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}
	log.Ctx(ctx).Debug().Str("url", source.URL).Msg("downloading screenshot")
	data, err := fetchURL(ctx, source.URL, a.http)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.CacheDir) != "" {
		if err := os.MkdirAll(a.CacheDir, 0o755); err == nil {
			_ = os.WriteFile(cachePath, data, 0o644)
		}
	}
	return data, nil
}

func (a ScreenshotStoreAdapter) mirrorURL(dir string, name string) string {
	if a.MirrorURL == "" {
		return dir + "/" + name
	}
	return a.MirrorURL + "/" + dir + "/" + name
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create screenshot directory").
			WithCause(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode screenshot").
			WithCause(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write screenshot").
			WithCause(err)
	}
	return nil
}

var _ ports.ScreenshotStorePort = ScreenshotStoreAdapter{}

package adapters

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/image/draw"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const cachedIconSize = 64

var hicolorSizes = []string{"64x64", "128x128", "256x256", "96x96", "72x72", "48x48", "32x32", "24x24", "22x22", "16x16"}

// IconStoreAdapter resolves icon names against the staging tree and
// writes them into the icon directory as 64x64 PNG files named after the
// record id.
type IconStoreAdapter struct {
	StagingDir string
	IconDir    string
}

func NewIconStoreAdapter(stagingDir string, iconDir string) IconStoreAdapter {
	return IconStoreAdapter{StagingDir: stagingDir, IconDir: iconDir}
}

// Resolve finds a decodable icon for name in the staging tree. The
// returned reference names the cached file "<id>.png"; nothing is written
// until Store.
func (a IconStoreAdapter) Resolve(id string, name string) (types.IconRef, bool, error) {
	source, ok := a.resolve(name)
	if !ok {
		return types.IconRef{}, false, nil
	}
	file, err := os.Open(source)
	if err != nil {
		return types.IconRef{}, false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open icon").
			WithCause(err)
	}
	defer file.Close()
	if _, _, err := image.DecodeConfig(file); err != nil {
		// SVG and XPM icons cannot be rasterized here
		return types.IconRef{}, false, nil
	}
	return types.IconRef{Kind: types.IconKindCached, Name: id + ".png", Source: source}, true, nil
}

// Store scales the source of a cached icon reference to 64x64 and writes
// it into the icon directory.
func (a IconStoreAdapter) Store(ref types.IconRef) error {
	if ref.Kind != types.IconKindCached || strings.TrimSpace(ref.Source) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("icon reference has no source")
	}
	file, err := os.Open(ref.Source)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open icon").
			WithCause(err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode icon").
			WithCause(err)
	}

	if err := os.MkdirAll(a.IconDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create icon directory").
			WithCause(err)
	}
	out, err := os.Create(filepath.Join(a.IconDir, filepath.Base(ref.Name)))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cached icon").
			WithCause(err)
	}
	if err := png.Encode(out, fitImage(img, cachedIconSize, cachedIconSize)); err != nil {
		out.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cached icon").
			WithCause(err)
	}
	if err := out.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cached icon").
			WithCause(err)
	}
	return nil
}

// resolve looks an icon up the way desktop environments do: an absolute
// path first, then the hicolor theme largest-useful size first, then the
// legacy pixmap locations.
func (a IconStoreAdapter) resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(a.StagingDir) == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return a.existing(strings.TrimPrefix(name, "/"))
	}
	if strings.Contains(name, "/") {
		return "", false
	}
	var candidates []string
	names := []string{name + ".png"}
	if filepath.Ext(name) != "" {
		names = append([]string{name}, names...)
	}
	for _, size := range hicolorSizes {
		for _, candidate := range names {
			candidates = append(candidates, filepath.Join("usr/share/icons/hicolor", size, "apps", candidate))
		}
	}
	for _, candidate := range names {
		candidates = append(candidates,
			filepath.Join("usr/share/pixmaps", candidate),
			filepath.Join("usr/share/icons", candidate),
		)
	}
	for _, candidate := range candidates {
		if found, ok := a.existing(candidate); ok {
			return found, true
		}
	}
	return "", false
}

func (a IconStoreAdapter) existing(rel string) (string, bool) {
	resolved, ok := resolveInRoot(a.StagingDir, rel)
	if !ok {
		return "", false
	}
	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}
	return resolved, true
}

const maxLinkHops = 40

// resolveInRoot follows symlinks in rel as if root were the filesystem
// root: absolute targets restart at root and ".." never climbs above it.
// Paths that would leave root resolve to false.
func resolveInRoot(root string, rel string) (string, bool) {
	pending := strings.Split(filepath.ToSlash(rel), "/")
	resolved := ""
	hops := 0
	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]
		switch part {
		case "", ".":
			continue
		case "..":
			if resolved == "" {
				return "", false
			}
			resolved = path.Dir(resolved)
			if resolved == "." {
				resolved = ""
			}
			continue
		}
		next := path.Join(resolved, part)
		full := filepath.Join(root, filepath.FromSlash(next))
		info, err := os.Lstat(full)
		if err != nil {
			return "", false
		}
		if info.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}
		hops++
		if hops > maxLinkHops {
			return "", false
		}
		target, err := os.Readlink(full)
		if err != nil {
			return "", false
		}
		target = filepath.ToSlash(target)
		if strings.HasPrefix(target, "/") {
			resolved = ""
		}
		pending = append(strings.Split(target, "/"), pending...)
	}
	return filepath.Join(root, filepath.FromSlash(resolved)), true
}

// fitImage scales src to fit inside width x height, keeping its aspect
// ratio and centering it on a transparent canvas.
func fitImage(src image.Image, width int, height int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if bounds.Empty() {
		return dst
	}
	scaledW, scaledH := width, height
	if bounds.Dx()*height > bounds.Dy()*width {
		scaledH = max(1, bounds.Dy()*width/bounds.Dx())
	} else {
		scaledW = max(1, bounds.Dx()*height/bounds.Dy())
	}
	offsetX := (width - scaledW) / 2
	offsetY := (height - scaledH) / 2
	rect := image.Rect(offsetX, offsetY, offsetX+scaledW, offsetY+scaledH)
	draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Over, nil)
	return dst
}

var _ ports.IconStorePort = IconStoreAdapter{}

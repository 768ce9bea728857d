package adapters

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// ScreenshotCacheAdapter exposes the download cache written by
// ScreenshotStoreAdapter.
type ScreenshotCacheAdapter struct {
	Dir string
}

func NewScreenshotCacheAdapter(dir string) ScreenshotCacheAdapter {
	return ScreenshotCacheAdapter{Dir: dir}
}

func (a ScreenshotCacheAdapter) List() ([]types.CacheEntry, error) {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list screenshot cache").
			WithCause(err)
	}
	var out []types.CacheEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, types.CacheEntry{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
		})
	}
	slices.SortFunc(out, func(a, b types.CacheEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (a ScreenshotCacheAdapter) Delete(name string) error {
	if name == "" || name != filepath.Base(name) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid cache entry name")
	}
	if err := os.Remove(filepath.Join(a.Dir, name)); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete cache entry").
			WithCause(err)
	}
	return nil
}

var _ ports.CacheStorePort = ScreenshotCacheAdapter{}

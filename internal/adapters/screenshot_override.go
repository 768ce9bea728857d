package adapters

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"appstream-builder/internal/ports"
)

// ScreenshotOverrideDirAdapter serves curated screenshots from
// "<Dir>/<id>/*.png".
type ScreenshotOverrideDirAdapter struct {
	Dir string
}

func NewScreenshotOverrideDirAdapter(dir string) ScreenshotOverrideDirAdapter {
	return ScreenshotOverrideDirAdapter{Dir: dir}
}

func (a ScreenshotOverrideDirAdapter) Overrides(id string) ([]string, bool, error) {
	if strings.TrimSpace(a.Dir) == "" || strings.TrimSpace(id) == "" {
		return nil, false, nil
	}
	dir := filepath.Join(a.Dir, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list screenshot overrides").
			WithCause(err)
	}
	matches := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match("*.png", entry.Name()); ok {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(matches)
	return matches, true, nil
}

var _ ports.ScreenshotOverridePort = ScreenshotOverrideDirAdapter{}

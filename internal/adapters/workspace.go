package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// WorkspaceAdapter owns the working directories under Root: the staging
// tree "tmp", the per-package icon cache "icons", the download cache
// "screenshot-cache" and the mirrored "screenshots" tree.
type WorkspaceAdapter struct {
	Root string
}

func NewWorkspaceAdapter(root string) WorkspaceAdapter {
	return WorkspaceAdapter{Root: root}
}

func (a WorkspaceAdapter) StagingDir() string {
	return filepath.Join(a.Root, "tmp")
}

func (a WorkspaceAdapter) IconDir() string {
	return filepath.Join(a.Root, "icons")
}

func (a WorkspaceAdapter) CacheDir() string {
	return filepath.Join(a.Root, "screenshot-cache")
}

func (a WorkspaceAdapter) ScreenshotsDir() string {
	return filepath.Join(a.Root, "screenshots")
}

// Prepare creates the long-lived directories. Existing content is kept.
func (a WorkspaceAdapter) Prepare(sizes []types.ImageSize) error {
	if strings.TrimSpace(a.Root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	dirs := []string{
		a.IconDir(),
		a.CacheDir(),
		filepath.Join(a.ScreenshotsDir(), "source"),
	}
	for _, size := range sizes {
		dirs = append(dirs, filepath.Join(a.ScreenshotsDir(), size.String()))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create workspace directory").
				WithCause(err)
		}
	}
	return nil
}

// ResetStaging recreates the staging tree and icon cache empty.
func (a WorkspaceAdapter) ResetStaging() error {
	if err := a.Cleanup(); err != nil {
		return err
	}
	for _, dir := range []string{a.StagingDir(), a.IconDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create staging directory").
				WithCause(err)
		}
	}
	return nil
}

func (a WorkspaceAdapter) Cleanup() error {
	if strings.TrimSpace(a.Root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	for _, dir := range []string{a.StagingDir(), a.IconDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove staging directory").
				WithCause(err)
		}
	}
	return nil
}

var _ ports.WorkspacePort = WorkspaceAdapter{}

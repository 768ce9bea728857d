package ports

import "appstream-builder/internal/types"

// WorkspacePort owns the on-disk working directories of a build.
type WorkspacePort interface {
	Prepare(sizes []types.ImageSize) error
	ResetStaging() error
	Cleanup() error
	StagingDir() string
	IconDir() string
}

package ports

import (
	"context"

	"appstream-builder/internal/types"
)

// OverrideStorePort locates and loads AppData sidecar files.
type OverrideStorePort interface {
	// PackageSidecar returns the sidecar shipped inside the package.
	PackageSidecar(app types.Application) (string, bool)
	// ExtraSidecar returns the externally supplied sidecar.
	ExtraSidecar(app types.Application) (string, bool)
	// Discard removes a superseded sidecar.
	Discard(path string) error
	Load(path string) (types.OverrideDocument, error)
}

// SidecarValidatorPort runs an external validator on a sidecar and
// returns its diagnostics. A nil slice means the file validated.
type SidecarValidatorPort interface {
	Validate(ctx context.Context, path string) ([]string, error)
}

// ScreenshotOverridePort lists locally curated screenshots for an id.
// The boolean reports whether an override directory exists at all.
type ScreenshotOverridePort interface {
	Overrides(id string) ([]string, bool, error)
}

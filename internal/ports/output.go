package ports

import (
	"context"

	"appstream-builder/internal/types"
)

type CatalogWriterPort interface {
	WriteCatalog(packageName string, entries []types.CatalogEntry) (string, error)
	WriteIconArchive(packageName string, iconDir string) (string, error)
}

// ScreenshotStorePort acquires screenshot sources and produces the
// mirrored images listed in the catalog.
type ScreenshotStorePort interface {
	Publish(ctx context.Context, app types.Application) ([]types.Screenshot, error)
}

// IconStorePort resolves an icon name against the staging tree at parse
// time. Store renders the icon into the icon directory once its record has
// been accepted.
type IconStorePort interface {
	Resolve(id string, name string) (types.IconRef, bool, error)
	Store(ref types.IconRef) error
}

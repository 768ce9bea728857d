package ports

import (
	"context"

	"appstream-builder/internal/types"
)

// CacheStorePort lists and removes downloaded screenshots.
type CacheStorePort interface {
	List() ([]types.CacheEntry, error)
	Delete(name string) error
}

// CatalogReaderPort reads back emitted catalog fragments.
type CatalogReaderPort interface {
	ReadCatalog(path string) ([]types.CatalogEntry, error)
	ListIconArchive(path string) ([]string, error)
}

// PackageWatcherPort reports package archives that appear or change in a
// directory. onChange runs on the watch loop, so calls never overlap.
type PackageWatcherPort interface {
	Watch(ctx context.Context, dir string, onChange func(ctx context.Context, paths []string)) error
}

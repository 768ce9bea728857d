package ports

import (
	"context"

	"appstream-builder/internal/types"
)

// PackageReaderPort identifies a package archive without extracting it.
type PackageReaderPort interface {
	Identify(path string) (types.PackageInfo, error)
}

// ExtractorPort unpacks the files of a package archive that match any of
// wildcards into destDir. Extraction is additive: existing files in
// destDir are kept.
type ExtractorPort interface {
	Extract(ctx context.Context, pkg types.PackageInfo, destDir string, wildcards []string) error
}

// CompanionSourcePort finds companion package archives by glob.
type CompanionSourcePort interface {
	FindCompanions(glob string) ([]string, error)
}

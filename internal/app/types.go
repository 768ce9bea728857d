package app

import (
	"time"

	"appstream-builder/internal/types"
)

type BuildRequest struct {
	Packages  []string
	KeepGoing bool
}

type BuildResult struct {
	Packages []types.PackageResult
}

// Failed counts packages that could not be extracted.
func (r BuildResult) Failed() int {
	count := 0
	for _, pkg := range r.Packages {
		if pkg.Status == types.PackageStatusExtractFailed {
			count++
		}
	}
	return count
}

type WatchRequest struct {
	Dir      string
	Pattern  string
	Debounce time.Duration
}

type ValidateResult struct {
	Hints []string
}

type InspectRequest struct {
	OutputDir string
}

type InspectPackageSummary struct {
	Package       string
	Applications  []string
	ProjectGroups map[string]int
	Screenshots   int
	Icons         int
}

type InspectResult struct {
	Packages           []InspectPackageSummary
	ApplicationCount   int
	MissingIconArchive []string
}

type PruneRequest struct {
	KeepLast int
	KeepDays int
	DryRun   bool
}

type PruneResult struct {
	KeepCount   int
	DeleteCount int
	Deleted     []string
	FreedBytes  int64
	DryRun      bool
}

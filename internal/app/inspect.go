package app

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
)

// Inspect summarizes the catalog fragments in an output directory.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = s.Config.OutputDir
	}
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	catalogs, err := doublestar.FilepathGlob(filepath.Join(outputDir, "*.xml"), doublestar.WithFilesOnly())
	if err != nil {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list catalogs").
			WithCause(err)
	}
	slices.Sort(catalogs)

	var result InspectResult
	for _, catalogPath := range catalogs {
		name := strings.TrimSuffix(filepath.Base(catalogPath), ".xml")
		entries, err := s.CatalogReader.ReadCatalog(catalogPath)
		if err != nil {
			return InspectResult{}, err
		}
		summary := InspectPackageSummary{Package: name, ProjectGroups: map[string]int{}}
		for _, entry := range entries {
			summary.Applications = append(summary.Applications, entry.App.ID)
			summary.Screenshots += len(entry.Screenshots)
			if entry.App.ProjectGroup != "" {
				summary.ProjectGroups[entry.App.ProjectGroup]++
			}
		}
		archivePath := filepath.Join(outputDir, name+"-icons.tar")
		if _, err := os.Stat(archivePath); err != nil {
			result.MissingIconArchive = append(result.MissingIconArchive, name)
		} else {
			icons, err := s.CatalogReader.ListIconArchive(archivePath)
			if err != nil {
				return InspectResult{}, err
			}
			summary.Icons = len(icons)
		}
		result.ApplicationCount += len(summary.Applications)
		result.Packages = append(result.Packages, summary)
	}
	return result, nil
}

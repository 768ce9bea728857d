package types

// PackageInfo identifies one package archive. Summary, Description,
// Homepage and License are filled from the control paragraph when the
// archive is read natively.
type PackageInfo struct {
	Name         string
	Version      string
	Architecture string
	Path         string
	Summary      string
	Description  string
	Homepage     string
	License      string
}

// ExtractedFile is one file written into the staging tree. RelPath is
// relative to the staging root and uses forward slashes.
type ExtractedFile struct {
	Path    string
	RelPath string
}

package adapters

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"appstream-builder/internal/ports"
)

// CompanionDirAdapter finds companion package archives in a local
// directory by file name prefix glob.
type CompanionDirAdapter struct {
	Dir string
}

func NewCompanionDirAdapter(dir string) CompanionDirAdapter {
	return CompanionDirAdapter{Dir: dir}
}

// FindCompanions returns the archives in Dir whose name matches
// "<glob>*.deb", sorted.
func (a CompanionDirAdapter) FindCompanions(glob string) ([]string, error) {
	if strings.TrimSpace(a.Dir) == "" || strings.TrimSpace(glob) == "" {
		return nil, nil
	}
	pattern := filepath.Join(a.Dir, glob+"*.deb")
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid companion pattern").
			WithCause(err)
	}
	slices.Sort(matches)
	return matches, nil
}

var _ ports.CompanionSourcePort = CompanionDirAdapter{}

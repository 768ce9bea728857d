package adapters

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
	"pault.ag/go/debian/deb"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// PackageFileAdapter identifies Debian package archives. The archive name
// carries name, version and architecture; the control paragraph, when the
// archive can be read, adds the summary and homepage.
type PackageFileAdapter struct{}

func NewPackageFileAdapter() PackageFileAdapter {
	return PackageFileAdapter{}
}

func (a PackageFileAdapter) Identify(path string) (types.PackageInfo, error) {
	if strings.TrimSpace(path) == "" {
		return types.PackageInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package path is empty")
	}
	info, nameErr := parsePackageFilename(path)

	debFile, closer, err := deb.LoadFile(path)
	if err != nil {
		if nameErr != nil {
			return types.PackageInfo{}, nameErr
		}
		return info, nil
	}
	defer closer()

	info.Path = path
	control := debFile.Control
	if name := strings.TrimSpace(control.Package); name != "" {
		info.Name = name
	}
	if version := strings.TrimSpace(control.Version.String()); version != "" {
		info.Version = version
	}
	if arch := strings.TrimSpace(control.Architecture.String()); arch != "" {
		info.Architecture = arch
	}
	info.Summary, info.Description = splitControlDescription(control.Description)
	info.Homepage = strings.TrimSpace(control.Homepage)
	if info.Name == "" {
		return types.PackageInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package %s has no name", path))
	}
	return info, nil
}

// parsePackageFilename reads "<name>_<version>_<arch>.deb". The epoch
// separator may be URL-encoded as "%3a" the way archive mirrors store it.
func parsePackageFilename(path string) (types.PackageInfo, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "_")
	if len(parts) != 3 || parts[0] == "" {
		return types.PackageInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package file name %s is not <name>_<version>_<arch>.deb", base))
	}
	version, err := url.PathUnescape(parts[1])
	if err != nil {
		version = parts[1]
	}
	if _, err := debversion.NewVersion(version); err != nil {
		return types.PackageInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package file name %s has an invalid version", base)).
			WithCause(err)
	}
	return types.PackageInfo{
		Name:         parts[0],
		Version:      version,
		Architecture: parts[2],
		Path:         path,
	}, nil
}

func splitControlDescription(value string) (string, string) {
	lines := strings.Split(value, "\n")
	summary := strings.TrimSpace(lines[0])
	var body []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "." {
			line = ""
		}
		body = append(body, line)
	}
	return summary, strings.TrimSpace(strings.Join(body, "\n"))
}

var _ ports.PackageReaderPort = PackageFileAdapter{}

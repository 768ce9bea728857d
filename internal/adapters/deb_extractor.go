package adapters

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"pault.ag/go/debian/deb"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/shared"
	"appstream-builder/internal/types"
)

// DebExtractorAdapter unpacks package archives into a staging directory.
// With Helper set the external helper is run as "<helper> <package> <dir>"
// and the wildcards are ignored; otherwise the data tarball is read natively.
type DebExtractorAdapter struct {
	Helper string
}

func NewDebExtractorAdapter(helper string) DebExtractorAdapter {
	return DebExtractorAdapter{Helper: helper}
}

func (a DebExtractorAdapter) Extract(ctx context.Context, pkg types.PackageInfo, destDir string, wildcards []string) error {
	if strings.TrimSpace(destDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("extraction directory is empty")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create extraction directory").
			WithCause(err)
	}
	if strings.TrimSpace(a.Helper) != "" {
		return a.extractWithHelper(ctx, pkg, destDir)
	}
	return extractDebData(ctx, pkg.Path, destDir, wildcards)
}

func (a DebExtractorAdapter) extractWithHelper(ctx context.Context, pkg types.PackageInfo, destDir string) error {
	log.Ctx(ctx).Debug().Str("helper", a.Helper).Msg("extracting with helper")
	cmd := exec.CommandContext(ctx, a.Helper, pkg.Path, destDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot extract package").
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

func extractDebData(ctx context.Context, path string, destDir string, wildcards []string) error {
	debFile, closer, err := deb.LoadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot extract package").
			WithCause(err)
	}
	defer closer()

	patterns := normalizeWildcards(wildcards)
	extracted := 0
	for {
		if ctx.Err() != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("extraction canceled").
				WithCause(ctx.Err())
		}
		header, err := debFile.Data.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("cannot extract package").
				WithCause(err)
		}
		name := shared.NormalizeArchivePath(header.Name)
		if name == "" || name == ".." || strings.HasPrefix(name, "../") {
			continue
		}
		if !matchesAnyWildcard(patterns, name) {
			continue
		}
		written, err := writeArchiveMember(debFile.Data, header, destDir, name)
		if errors.Is(err, errUnsafeMember) {
			log.Ctx(ctx).Warn().Str("member", name).Msg("skipping member with a symlinked parent")
			continue
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("cannot extract package").
				WithCause(err)
		}
		if written {
			extracted++
		}
	}
	log.Ctx(ctx).Debug().Int("files", extracted).Str("package", filepath.Base(path)).Msg("extracted package")
	return nil
}

var errUnsafeMember = errors.New("archive member leaves the extraction directory")

// writeArchiveMember writes one member below destDir. Members whose parent
// path crosses a symlink are refused so a link planted by an earlier member
// cannot redirect later writes outside destDir.
func writeArchiveMember(reader io.Reader, header *tar.Header, destDir string, name string) (bool, error) {
	if header.Typeflag != tar.TypeReg && header.Typeflag != tar.TypeSymlink {
		return false, nil
	}
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if err := checkMemberParents(destDir, name); err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return false, err
		}
	}
	switch header.Typeflag {
	case tar.TypeReg:
		file, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return false, err
		}
		if _, err := io.Copy(file, reader); err != nil {
			file.Close()
			return false, err
		}
		return true, file.Close()
	default:
		_ = os.Remove(target)
		return true, os.Symlink(header.Linkname, target)
	}
}

// checkMemberParents walks the existing parent directories of name and
// fails with errUnsafeMember when one of them is a symlink.
func checkMemberParents(destDir string, name string) error {
	parts := strings.Split(name, "/")
	current := destDir
	for _, part := range parts[:len(parts)-1] {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
			return errUnsafeMember
		}
	}
	return nil
}

func normalizeWildcards(wildcards []string) []string {
	patterns := make([]string, 0, len(wildcards))
	for _, wildcard := range wildcards {
		pattern := shared.NormalizeArchivePath(wildcard)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			continue
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}

func matchesAnyWildcard(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

var _ ports.ExtractorPort = DebExtractorAdapter{}

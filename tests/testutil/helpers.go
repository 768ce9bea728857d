// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// DebMember is one entry of a package data tarball. A non-empty Linkname
// makes it a symlink.
type DebMember struct {
	Name     string
	Body     []byte
	Linkname string
}

// TextMember is a regular file member with text content.
func TextMember(name string, body string) DebMember {
	return DebMember{Name: name, Body: []byte(body)}
}

// WriteDeb assembles a minimal Debian binary package: an ar archive
// holding debian-binary, control.tar.gz and data.tar.gz.
func WriteDeb(t *testing.T, path string, control string, members []DebMember) {
	t.Helper()
	controlTar := gzipTar(t, []DebMember{TextMember("./control", control)})
	dataTar := gzipTar(t, members)

	var buf bytes.Buffer
	buf.WriteString("!<arch>\n")
	writeArMember(&buf, "debian-binary", []byte("2.0\n"))
	writeArMember(&buf, "control.tar.gz", controlTar)
	writeArMember(&buf, "data.tar.gz", dataTar)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeArMember(buf *bytes.Buffer, name string, data []byte) {
	fmt.Fprintf(buf, "%-16s%-12d%-6d%-6d%-8s%-10d`\n", name, 0, 0, 0, "100644", len(data))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte('\n')
	}
}

func gzipTar(t *testing.T, members []DebMember) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, member := range members {
		header := &tar.Header{Name: member.Name, Mode: 0o644}
		if member.Linkname != "" {
			header.Typeflag = tar.TypeSymlink
			header.Linkname = member.Linkname
		} else {
			header.Typeflag = tar.TypeReg
			header.Size = int64(len(member.Body))
		}
		require.NoError(t, tw.WriteHeader(header))
		if member.Linkname == "" {
			_, err := tw.Write(member.Body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// Control renders a control paragraph for a test package.
func Control(name string, version string) string {
	return fmt.Sprintf("Package: %s\nVersion: %s\nArchitecture: amd64\nMaintainer: Test <test@example.org>\nHomepage: https://wiki.gnome.org/Apps/Test\nDescription: Test summary\n Longer text.\n .\n Second paragraph.\n", name, version)
}

// PNG encodes an opaque gradient image.
func PNG(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

package adapters

import (
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"appstream-builder/tests/testutil"
)

func writeTestDeb(t *testing.T, path string, control string, members []testutil.DebMember) {
	t.Helper()
	testutil.WriteDeb(t, path, control, members)
}

func testControl(name string, version string) string {
	return testutil.Control(name, version)
}

func writeTestPNG(t *testing.T, path string, width int, height int) {
	t.Helper()
	testutil.WriteFile(t, path, testutil.PNG(t, width, height))
}

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	testutil.WriteFile(t, path, []byte(content))
}

func decodeTestPNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	return img
}

package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appstream-builder/internal/types"
)

const testAppData = `<?xml version="1.0" encoding="UTF-8"?>
<application>
  <id type="desktop">gedit.desktop</id>
  <licence>CC0</licence>
  <name>gedit</name>
  <name xml:lang="de">Gedit</name>
  <summary>Edit text   files</summary>
  <summary xml:lang="fr">Éditer des fichiers</summary>
  <description>
    <p>gedit is the official text editor.</p>
    <p xml:lang="de">gedit ist der Texteditor.</p>
    <ul>
      <li>Syntax highlighting</li>
      <li xml:lang="de">Syntaxhervorhebung</li>
    </ul>
  </description>
  <url type="homepage">https://wiki.gnome.org/Apps/Gedit</url>
  <url type="bugtracker">https://gitlab.gnome.org/GNOME/gedit/issues</url>
  <project_group>GNOME</project_group>
  <screenshots>
    <screenshot type="default">https://example.org/gedit.png</screenshot>
    <screenshot>
      <image type="thumbnail">https://example.org/thumb.png</image>
      <image type="source">https://example.org/source.png</image>
    </screenshot>
  </screenshots>
  <compulsory_for_desktop>GNOME</compulsory_for_desktop>
</application>
`

func TestAppDataFileAdapterLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gedit.appdata.xml")
	writeTestFile(t, path, testAppData)

	doc, err := NewAppDataFileAdapter("", "").Load(path)
	require.NoError(t, err)

	want := types.OverrideDocument{
		ID:           "gedit.desktop",
		Licence:      "CC0",
		Names:        types.LocalizedText{"C": "gedit", "de": "Gedit"},
		Summaries:    types.LocalizedText{"C": "Edit text files", "fr": "Éditer des fichiers"},
		URLs:         map[string]string{"homepage": "https://wiki.gnome.org/Apps/Gedit", "bugtracker": "https://gitlab.gnome.org/GNOME/gedit/issues"},
		ProjectGroup: "GNOME",
		Descriptions: types.LocalizedText{
			"C":  "<p>gedit is the official text editor.</p><ul><li>Syntax highlighting</li></ul>",
			"de": "<p>gedit ist der Texteditor.</p><ul><li>Syntaxhervorhebung</li></ul>",
		},
		Screenshots:          []string{"https://example.org/gedit.png", "https://example.org/source.png"},
		CompulsoryForDesktop: []string{"GNOME"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected override (-want +got):\n%s", diff)
	}
}

func TestAppDataFileAdapterAcceptsComponentRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.appdata.xml")
	writeTestFile(t, path, `<component type="font"><id>Go-Regular</id><metadata_license>CC-BY-SA</metadata_license></component>`)

	doc, err := NewAppDataFileAdapter("", "").Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Go-Regular", doc.ID)
	assert.Equal(t, "CC-BY-SA", doc.Licence)
}

func TestAppDataFileAdapterRejectsInvalidDocuments(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"wrong-root.xml": `<fontconfig/>`,
		"broken.xml":     `<application><name>`,
	}
	adapter := NewAppDataFileAdapter("", "")
	for name, content := range cases {
		path := filepath.Join(dir, name)
		writeTestFile(t, path, content)
		_, err := adapter.Load(path)
		require.Error(t, err, name)
	}
	_, err := adapter.Load(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
}

func TestAppDataFileAdapterSidecarLocations(t *testing.T) {
	staging := t.TempDir()
	extra := t.TempDir()
	app := types.Application{ID: "gedit", TypeID: types.TypeIDDesktop}
	adapter := NewAppDataFileAdapter(staging, extra)

	_, ok := adapter.PackageSidecar(app)
	assert.False(t, ok)
	_, ok = adapter.ExtraSidecar(app)
	assert.False(t, ok)

	packagePath := filepath.Join(staging, "usr/share/appdata/gedit.appdata.xml")
	extraPath := filepath.Join(extra, "desktop/gedit.appdata.xml")
	writeTestFile(t, packagePath, testAppData)
	writeTestFile(t, extraPath, testAppData)

	got, ok := adapter.PackageSidecar(app)
	require.True(t, ok)
	assert.Equal(t, packagePath, got)
	got, ok = adapter.ExtraSidecar(app)
	require.True(t, ok)
	assert.Equal(t, extraPath, got)

	_, ok = adapter.ExtraSidecar(types.Application{ID: "gedit", TypeID: types.TypeIDFont})
	assert.False(t, ok)

	require.NoError(t, adapter.Discard(extraPath))
	assert.NoFileExists(t, extraPath)
	require.NoError(t, adapter.Discard(extraPath))
}

func TestAppDataValidatorAdapter(t *testing.T) {
	dir := t.TempDir()
	passing := filepath.Join(dir, "validate-pass")
	require.NoError(t, os.WriteFile(passing, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	failing := filepath.Join(dir, "validate-fail")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\necho \"$1\"\necho\necho \"$2: <name> missing\"\nexit 1\n"), 0o755))
	silent := filepath.Join(dir, "validate-silent")
	require.NoError(t, os.WriteFile(silent, []byte("#!/bin/sh\nexit 2\n"), 0o755))

	diagnostics, err := NewAppDataValidatorAdapter(passing).Validate(t.Context(), "gedit.appdata.xml")
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	diagnostics, err = NewAppDataValidatorAdapter(failing).Validate(t.Context(), "gedit.appdata.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"--relax", "gedit.appdata.xml: <name> missing"}, diagnostics)

	diagnostics, err = NewAppDataValidatorAdapter(silent).Validate(t.Context(), "gedit.appdata.xml")
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0], "exit status 2")

	diagnostics, err = NewAppDataValidatorAdapter("").Validate(t.Context(), "gedit.appdata.xml")
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	_, err = NewAppDataValidatorAdapter(filepath.Join(dir, "missing")).Validate(t.Context(), "gedit.appdata.xml")
	require.Error(t, err)
}

func TestScreenshotOverrideDirAdapter(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "gedit", "b.png"), 4, 4)
	writeTestPNG(t, filepath.Join(dir, "gedit", "a.png"), 4, 4)
	writeTestFile(t, filepath.Join(dir, "gedit", "notes.txt"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	adapter := NewScreenshotOverrideDirAdapter(dir)

	paths, ok, err := adapter.Overrides("gedit")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{filepath.Join(dir, "gedit", "a.png"), filepath.Join(dir, "gedit", "b.png")}, paths)

	paths, ok, err = adapter.Overrides("empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, paths)

	_, ok, err = adapter.Overrides("inkscape")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspaceAdapter(t *testing.T) {
	root := t.TempDir()
	workspace := NewWorkspaceAdapter(root)
	sizes := []types.ImageSize{{Width: 624, Height: 351}, {Width: 112, Height: 63}}

	require.NoError(t, workspace.Prepare(sizes))
	for _, dir := range []string{"icons", "screenshot-cache", "screenshots/source", "screenshots/624x351", "screenshots/112x63"} {
		assert.DirExists(t, filepath.Join(root, dir))
	}

	writeTestFile(t, filepath.Join(workspace.StagingDir(), "usr/share/applications/gedit.desktop"), "x")
	writeTestFile(t, filepath.Join(workspace.IconDir(), "gedit.png"), "x")
	writeTestFile(t, filepath.Join(workspace.CacheDir(), "cached"), "x")

	require.NoError(t, workspace.ResetStaging())
	assert.DirExists(t, workspace.StagingDir())
	assert.NoFileExists(t, filepath.Join(workspace.StagingDir(), "usr/share/applications/gedit.desktop"))
	assert.NoFileExists(t, filepath.Join(workspace.IconDir(), "gedit.png"))
	assert.FileExists(t, filepath.Join(workspace.CacheDir(), "cached"))

	require.NoError(t, workspace.Cleanup())
	assert.NoDirExists(t, workspace.StagingDir())
	assert.NoDirExists(t, workspace.IconDir())

	require.Error(t, NewWorkspaceAdapter("").Prepare(nil))
}

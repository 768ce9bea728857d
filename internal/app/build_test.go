package app

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appstream-builder/internal/types"
	"appstream-builder/tests/testutil"
)

const geditDesktop = `[Desktop Entry]
Name=gedit
Name[de]=Texteditor
Comment=Edit text files
Icon=gedit
Categories=GNOME;GTK;Utility;TextEditor;
Type=Application
`

const geditAppData = `<?xml version="1.0" encoding="UTF-8"?>
<application>
  <id type="desktop">gedit.desktop</id>
  <licence>CC0</licence>
  <description>
    <p>gedit is the official text editor of the GNOME desktop.</p>
  </description>
  <url type="bugtracker">https://gitlab.gnome.org/GNOME/gedit/issues</url>
</application>
`

type testLayout struct {
	root string
	pool string
	cfg  types.BuildConfig
}

func newTestLayout(t *testing.T) testLayout {
	t.Helper()
	root := t.TempDir()
	cfg := DefaultBuildConfig()
	cfg.WorkDir = filepath.Join(root, "work")
	cfg.OutputDir = filepath.Join(root, "appstream")
	cfg.ExtractHelper = ""
	cfg.AppDataValidator = ""
	cfg.AppDataExtraDir = filepath.Join(root, "appdata-extra")
	cfg.ScreenshotsExtraDir = filepath.Join(root, "screenshots-extra")
	cfg.CompanionDir = filepath.Join(root, "packages")
	cfg.ThumbnailSizes = []types.ImageSize{{Width: 112, Height: 63}}
	cfg.ScreenshotMirrorURL = "https://mirror.example.org"
	return testLayout{root: root, pool: filepath.Join(root, "pool"), cfg: cfg}
}

func (l testLayout) geditDeb(t *testing.T) string {
	t.Helper()
	path := filepath.Join(l.pool, "gedit_3.10.4-1_amd64.deb")
	testutil.WriteDeb(t, path, testutil.Control("gedit", "3.10.4-1"), []testutil.DebMember{
		testutil.TextMember("./usr/share/applications/gedit.desktop", geditDesktop),
		{Name: "./usr/share/icons/hicolor/48x48/apps/gedit.png", Body: testutil.PNG(t, 48, 48)},
		testutil.TextMember("./usr/share/appdata/gedit.appdata.xml", geditAppData),
		testutil.TextMember("./usr/bin/gedit", "binary"),
	})
	return path
}

func TestBuildPackageWritesCatalog(t *testing.T) {
	layout := newTestLayout(t)
	pkgPath := layout.geditDeb(t)
	testutil.WriteFile(t, filepath.Join(layout.cfg.ScreenshotsExtraDir, "gedit", "main.png"), testutil.PNG(t, 320, 180))
	service := NewService(layout.cfg)

	result, err := service.BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusBuilt, result.Status)
	assert.Equal(t, []string{"gedit"}, result.Accepted)
	assert.Empty(t, result.Rejected)
	assert.Equal(t, filepath.Join(layout.cfg.OutputDir, "gedit.xml"), result.CatalogPath)
	assert.Equal(t, filepath.Join(layout.cfg.OutputDir, "gedit-icons.tar"), result.IconArchivePath)

	data, err := os.ReadFile(result.CatalogPath)
	require.NoError(t, err)
	catalog := string(data)
	for _, fragment := range []string{
		`<id type="desktop">gedit.desktop</id>`,
		`<pkgname>gedit</pkgname>`,
		`<name xml:lang="de">Texteditor</name>`,
		`<summary>Edit text files</summary>`,
		`<description><p>gedit is the official text editor of the GNOME desktop.</p></description>`,
		`<icon type="cached">gedit.png</icon>`,
		`<url type="bugtracker">https://gitlab.gnome.org/GNOME/gedit/issues</url>`,
		`<url type="homepage">https://wiki.gnome.org/Apps/Test</url>`,
		`<project_group>GNOME</project_group>`,
		`<screenshot type="default">`,
		`https://mirror.example.org/112x63/gedit-`,
	} {
		assert.Contains(t, catalog, fragment)
	}

	icons, err := service.CatalogReader.ListIconArchive(result.IconArchivePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"gedit.png"}, icons)
	assert.NoDirExists(t, filepath.Join(layout.cfg.WorkDir, "tmp"))
	assert.NoDirExists(t, filepath.Join(layout.cfg.WorkDir, "icons"))
	assert.DirExists(t, filepath.Join(layout.cfg.WorkDir, "screenshots", "112x63"))
}

func TestBuildPackageIsIdempotent(t *testing.T) {
	layout := newTestLayout(t)
	pkgPath := layout.geditDeb(t)
	testutil.WriteFile(t, filepath.Join(layout.cfg.ScreenshotsExtraDir, "gedit", "main.png"), testutil.PNG(t, 320, 180))
	service := NewService(layout.cfg)

	first, err := service.BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	firstCatalog, err := os.ReadFile(first.CatalogPath)
	require.NoError(t, err)
	firstArchive, err := os.ReadFile(first.IconArchivePath)
	require.NoError(t, err)

	second, err := service.BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	secondCatalog, err := os.ReadFile(second.CatalogPath)
	require.NoError(t, err)
	secondArchive, err := os.ReadFile(second.IconArchivePath)
	require.NoError(t, err)

	if diff := cmp.Diff(string(firstCatalog), string(secondCatalog)); diff != "" {
		t.Fatalf("unexpected catalog change (-want +got):\n%s", diff)
	}
	assert.Equal(t, firstArchive, secondArchive)
}

func TestBuildPackageWithoutContent(t *testing.T) {
	layout := newTestLayout(t)
	pkgPath := filepath.Join(layout.pool, "coreutils_9.4-3_amd64.deb")
	testutil.WriteDeb(t, pkgPath, testutil.Control("coreutils", "9.4-3"), []testutil.DebMember{
		testutil.TextMember("./usr/bin/ls", "binary"),
		testutil.TextMember("./usr/share/doc/coreutils/copyright", "GPL"),
	})

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusEmpty, result.Status)
	assert.Empty(t, result.Accepted)
	assert.NoFileExists(t, filepath.Join(layout.cfg.OutputDir, "coreutils.xml"))
	assert.NoFileExists(t, filepath.Join(layout.cfg.OutputDir, "coreutils-icons.tar"))
}

func TestBuildPackageBlacklisted(t *testing.T) {
	layout := newTestLayout(t)
	layout.cfg.PackageBlacklist = []string{"ged*"}
	pkgPath := layout.geditDeb(t)

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusBlacklisted, result.Status)
	assert.NoFileExists(t, filepath.Join(layout.cfg.OutputDir, "gedit.xml"))
	assert.NoDirExists(t, filepath.Join(layout.cfg.WorkDir, "tmp"))
}

func TestBuildPackageRejections(t *testing.T) {
	layout := newTestLayout(t)
	layout.cfg.IDBlacklist = []string{"*-settings"}
	pkgPath := filepath.Join(layout.pool, "editors_1.0-1_amd64.deb")
	testutil.WriteDeb(t, pkgPath, testutil.Control("editors", "1.0-1"), []testutil.DebMember{
		testutil.TextMember("./usr/share/applications/gedit.desktop", geditDesktop),
		testutil.TextMember("./usr/share/applications/kde4/gedit.desktop", geditDesktop),
		testutil.TextMember("./usr/share/applications/editor-settings.desktop", geditDesktop),
		testutil.TextMember("./usr/share/applications/noicon.desktop", "[Desktop Entry]\nName=No Icon\nComment=Missing icon\n"),
		testutil.TextMember("./usr/share/applications/hidden.desktop", "[Desktop Entry]\nName=Hidden\nNoDisplay=true\n"),
		{Name: "./usr/share/icons/hicolor/48x48/apps/gedit.png", Body: testutil.PNG(t, 48, 48)},
		{Name: "./usr/share/applications/alias.desktop", Linkname: "gedit.desktop"},
	})

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusBuilt, result.Status)
	assert.Equal(t, []string{"gedit"}, result.Accepted)
	want := []types.Rejection{
		{ID: "editor-settings", Reason: types.RejectBlacklisted},
		{ID: "gedit", Reason: types.RejectDuplicate},
		{ID: "noicon", Reason: types.RejectNoIcon},
	}
	if diff := cmp.Diff(want, result.Rejected); diff != "" {
		t.Fatalf("unexpected rejections (-want +got):\n%s", diff)
	}
}

func TestBuildPackageDuplicateKeepsFirstIcon(t *testing.T) {
	layout := newTestLayout(t)
	layout.cfg.Debug = true
	pkgPath := filepath.Join(layout.pool, "editors_1.0-1_amd64.deb")
	testutil.WriteDeb(t, pkgPath, testutil.Control("editors", "1.0-1"), []testutil.DebMember{
		testutil.TextMember("./usr/share/applications/gedit.desktop", geditDesktop),
		testutil.TextMember("./usr/share/applications/kde4/gedit.desktop", strings.Replace(geditDesktop, "Icon=gedit", "Icon=kde-gedit", 1)),
		{Name: "./usr/share/icons/hicolor/48x48/apps/gedit.png", Body: testutil.PNG(t, 48, 48)},
		{Name: "./usr/share/icons/hicolor/48x48/apps/kde-gedit.png", Body: testutil.PNG(t, 96, 24)},
	})

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	require.Equal(t, []string{"gedit"}, result.Accepted)

	file, err := os.Open(filepath.Join(layout.cfg.WorkDir, "icons", "gedit.png"))
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	// the letterboxed kde icon would leave the top row transparent
	_, _, _, alpha := img.At(32, 0).RGBA()
	assert.NotZero(t, alpha)
}

func TestBuildPackageCodecRequiresSidecar(t *testing.T) {
	layout := newTestLayout(t)
	pkgPath := filepath.Join(layout.pool, "gstreamer1.0-plugins-good_1.22.0-1_amd64.deb")
	testutil.WriteDeb(t, pkgPath, testutil.Control("gstreamer1.0-plugins-good", "1.22.0-1"), []testutil.DebMember{
		testutil.TextMember("./usr/lib/x86_64-linux-gnu/gstreamer-1.0/libgstvpx.so", "elf"),
		testutil.TextMember("./usr/lib/x86_64-linux-gnu/gstreamer-1.0/libgstflac.so", "elf"),
	})
	service := NewService(layout.cfg)

	result, err := service.BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusEmpty, result.Status)
	assert.Equal(t, []types.Rejection{{ID: "gstreamer1.0-plugins-good", Reason: types.RejectMissingRequiredSidecar}}, result.Rejected)

	testutil.WriteFile(t, filepath.Join(layout.cfg.AppDataExtraDir, "codec", "gstreamer1.0-plugins-good.appdata.xml"), []byte(`<component type="codec">
  <id>gstreamer1.0-plugins-good</id>
  <metadata_license>CC0</metadata_license>
  <name>GStreamer Good Plugins</name>
  <summary>Multimedia codecs</summary>
</component>`))

	result, err = service.BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusBuilt, result.Status)
	data, err := os.ReadFile(result.CatalogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<id type="codec">gstreamer1.0-plugins-good.codec</id>`)
	assert.Contains(t, string(data), `<name>GStreamer Good Plugins</name>`)
	assert.Contains(t, string(data), `<keyword>vpx</keyword>`)
	assert.Contains(t, string(data), `<icon type="stock">application-x-executable</icon>`)
}

func TestBuildPackageExtractsCompanions(t *testing.T) {
	layout := newTestLayout(t)
	layout.cfg.PackageData = []types.CompanionRule{{Package: "gedit", Companion: "gedit-data"}}
	pkgPath := filepath.Join(layout.pool, "gedit_3.10.4-1_amd64.deb")
	testutil.WriteDeb(t, pkgPath, testutil.Control("gedit", "3.10.4-1"), []testutil.DebMember{
		testutil.TextMember("./usr/share/applications/gedit.desktop", geditDesktop),
	})
	testutil.WriteDeb(t, filepath.Join(layout.cfg.CompanionDir, "gedit-data_3.10.4-1_all.deb"), testutil.Control("gedit-data", "3.10.4-1"), []testutil.DebMember{
		{Name: "./usr/share/icons/hicolor/64x64/apps/gedit.png", Body: testutil.PNG(t, 64, 64)},
	})

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"gedit"}, result.Accepted)
}

func TestBuildKeepGoing(t *testing.T) {
	layout := newTestLayout(t)
	broken := filepath.Join(layout.pool, "broken_1.0-1_amd64.deb")
	testutil.WriteFile(t, broken, []byte("garbage"))
	good := layout.geditDeb(t)
	service := NewService(layout.cfg)

	result, err := service.Build(t.Context(), BuildRequest{Packages: []string{broken, good}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	require.Len(t, result.Packages, 1)
	assert.Equal(t, types.PackageStatusExtractFailed, result.Packages[0].Status)

	result, err = service.Build(t.Context(), BuildRequest{Packages: []string{broken, good}, KeepGoing: true})
	require.NoError(t, err)
	require.Len(t, result.Packages, 2)
	assert.Equal(t, 1, result.Failed())
	assert.Equal(t, types.PackageStatusBuilt, result.Packages[1].Status)

	_, err = service.Build(t.Context(), BuildRequest{})
	require.Error(t, err)
}

func TestBuildDebugKeepsStaging(t *testing.T) {
	layout := newTestLayout(t)
	layout.cfg.Debug = true
	pkgPath := layout.geditDeb(t)

	result, err := NewService(layout.cfg).BuildPackage(t.Context(), pkgPath)
	require.NoError(t, err)
	assert.Equal(t, types.PackageStatusBuilt, result.Status)
	assert.FileExists(t, filepath.Join(layout.cfg.WorkDir, "tmp", "usr", "bin", "gedit"))
	assert.FileExists(t, filepath.Join(layout.cfg.WorkDir, "icons", "gedit.png"))
}

func TestListInterestingFiles(t *testing.T) {
	staging := t.TempDir()
	for _, rel := range []string{
		"usr/share/applications/b.desktop",
		"usr/share/applications/a.desktop",
		"usr/share/applications/kde4/a.desktop",
		"usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"usr/share/doc/readme.txt",
	} {
		testutil.WriteFile(t, filepath.Join(staging, rel), []byte("x"))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(staging, "usr/share/applications/dir.desktop"), 0o755))

	files, err := listInterestingFiles(staging, []string{
		"/usr/share/applications/*.desktop",
		"./usr/share/applications/kde4/*.desktop",
		"/usr/share/fonts/**/*.ttf",
		"/usr/share/applications/a.desktop",
	})
	require.NoError(t, err)
	var rels []string
	for _, file := range files {
		rels = append(rels, file.RelPath)
		assert.Equal(t, filepath.Join(staging, filepath.FromSlash(file.RelPath)), file.Path)
	}
	assert.Equal(t, []string{
		"usr/share/applications/a.desktop",
		"usr/share/applications/b.desktop",
		"usr/share/applications/kde4/a.desktop",
		"usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}, rels)

	_, err = listInterestingFiles(staging, []string{"usr/share/[unclosed"})
	require.Error(t, err)
}

func TestExtractWildcardsWidenInDebug(t *testing.T) {
	cfg := DefaultBuildConfig()
	assert.Equal(t, cfg.ExtractWildcards, extractWildcards(cfg))

	cfg.Debug = true
	wildcards := extractWildcards(cfg)
	assert.Len(t, wildcards, len(cfg.ExtractWildcards)+len(cfg.DebugWildcards))
	assert.Contains(t, wildcards, "./**/*.*")
}

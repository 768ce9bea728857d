package core

import (
	"context"
	"errors"

	"appstream-builder/internal/types"
)

type testOverrideStore struct {
	packagePath string
	extraPath   string
	docs        map[string]types.OverrideDocument
	discarded   []string
}

func (s *testOverrideStore) PackageSidecar(types.Application) (string, bool) {
	return s.packagePath, s.packagePath != ""
}

func (s *testOverrideStore) ExtraSidecar(types.Application) (string, bool) {
	return s.extraPath, s.extraPath != ""
}

func (s *testOverrideStore) Discard(path string) error {
	s.discarded = append(s.discarded, path)
	if path == s.extraPath {
		s.extraPath = ""
	}
	return nil
}

func (s *testOverrideStore) Load(path string) (types.OverrideDocument, error) {
	doc, ok := s.docs[path]
	if !ok {
		return types.OverrideDocument{}, errors.New("malformed document")
	}
	return doc, nil
}

type testValidator struct {
	diagnostics []string
	calls       int
}

func (v *testValidator) Validate(context.Context, string) ([]string, error) {
	v.calls++
	return v.diagnostics, nil
}

type testScreenshotOverrides struct {
	paths map[string][]string
}

func (o testScreenshotOverrides) Overrides(id string) ([]string, bool, error) {
	paths, ok := o.paths[id]
	return paths, ok, nil
}

type testCatalogWriter struct {
	entries      []types.CatalogEntry
	catalogCalls int
	archiveCalls int
}

func (w *testCatalogWriter) WriteCatalog(packageName string, entries []types.CatalogEntry) (string, error) {
	w.catalogCalls++
	w.entries = entries
	return "/out/" + packageName + ".xml", nil
}

func (w *testCatalogWriter) WriteIconArchive(packageName string, _ string) (string, error) {
	w.archiveCalls++
	return "/out/" + packageName + "-icons.tar", nil
}

type testIconStore struct {
	stored []types.IconRef
}

func (s *testIconStore) Resolve(id string, _ string) (types.IconRef, bool, error) {
	return types.IconRef{Kind: types.IconKindCached, Name: id + ".png"}, true, nil
}

func (s *testIconStore) Store(ref types.IconRef) error {
	s.stored = append(s.stored, ref)
	return nil
}

type testScreenshotStore struct {
	err error
}

func (s testScreenshotStore) Publish(_ context.Context, app types.Application) ([]types.Screenshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	screenshots := make([]types.Screenshot, 0, len(app.Screenshots))
	for idx, source := range app.Screenshots {
		kind := "normal"
		if idx == 0 {
			kind = "default"
		}
		screenshots = append(screenshots, types.Screenshot{
			Kind:   kind,
			Images: []types.ScreenshotImage{{Type: "source", URL: source.String()}},
		})
	}
	return screenshots, nil
}

func completeApp(id string) types.Application {
	app := types.NewApplication(types.PackageInfo{Name: "pkg"}, types.TypeIDDesktop)
	app.ID = id
	app.FullID = id + ".desktop"
	app.Names[types.DefaultLocale] = "Name " + id
	app.Comments[types.DefaultLocale] = "Comment " + id
	app.Icon = types.IconRef{Kind: types.IconKindCached, Name: id}
	return app
}

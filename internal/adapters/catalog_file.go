package adapters

import (
	"archive/tar"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const catalogHeader = `<?xml version="1.0"?>` + "\n"

type catalogXML struct {
	XMLName      xml.Name         `xml:"applications"`
	Version      string           `xml:"version,attr"`
	Applications []applicationXML `xml:"application"`
}

type applicationXML struct {
	ID                   typedValueXML    `xml:"id"`
	PackageName          string           `xml:"pkgname"`
	Names                []localizedXML   `xml:"name"`
	Summaries            []localizedXML   `xml:"summary"`
	Descriptions         []descriptionXML `xml:"description"`
	Icon                 typedValueXML    `xml:"icon"`
	Categories           []string         `xml:"appcategories>appcategory"`
	Keywords             []string         `xml:"keywords>keyword"`
	MimeTypes            []string         `xml:"mimetypes>mimetype"`
	Languages            []string         `xml:"languages>lang"`
	URLs                 []typedValueXML  `xml:"url"`
	ProjectGroup         string           `xml:"project_group,omitempty"`
	CompulsoryForDesktop []string         `xml:"compulsory_for_desktop"`
	Screenshots          []screenshotXML  `xml:"screenshots>screenshot"`
}

type typedValueXML struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type localizedXML struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

type descriptionXML struct {
	Lang   string `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Markup string `xml:",innerxml"`
}

type screenshotXML struct {
	Type   string            `xml:"type,attr"`
	Images []screenshotImage `xml:"image"`
}

type screenshotImage struct {
	Type   string `xml:"type,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Value  string `xml:",chardata"`
}

// CatalogFileAdapter writes "<Dir>/<package>.xml" and
// "<Dir>/<package>-icons.tar". Both outputs depend only on their inputs so
// rebuilding a package produces identical bytes.
type CatalogFileAdapter struct {
	Dir string
}

func NewCatalogFileAdapter(dir string) CatalogFileAdapter {
	return CatalogFileAdapter{Dir: dir}
}

func (a CatalogFileAdapter) WriteCatalog(packageName string, entries []types.CatalogEntry) (string, error) {
	path, err := a.ensurePath(packageName + ".xml")
	if err != nil {
		return "", err
	}
	data, err := MarshalCatalog(entries)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write catalog").
			WithCause(err)
	}
	return path, nil
}

func (a CatalogFileAdapter) WriteIconArchive(packageName string, iconDir string) (string, error) {
	path, err := a.ensurePath(packageName + "-icons.tar")
	if err != nil {
		return "", err
	}
	icons, err := doublestar.FilepathGlob(filepath.Join(iconDir, "*.png"), doublestar.WithFilesOnly())
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list icons").
			WithCause(err)
	}
	slices.Sort(icons)

	var buf bytes.Buffer
	writer := tar.NewWriter(&buf)
	for _, icon := range icons {
		data, err := os.ReadFile(icon)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read icon").
				WithCause(err)
		}
		header := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     filepath.Base(icon),
			Mode:     0o644,
			Size:     int64(len(data)),
			ModTime:  time.Unix(0, 0),
			Format:   tar.FormatUSTAR,
		}
		if err := writer.WriteHeader(header); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write icon archive").
				WithCause(err)
		}
		if _, err := writer.Write(data); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write icon archive").
				WithCause(err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write icon archive").
			WithCause(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write icon archive").
			WithCause(err)
	}
	return path, nil
}

func (a CatalogFileAdapter) ensurePath(name string) (string, error) {
	if strings.TrimSpace(a.Dir) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, name), nil
}

// MarshalCatalog renders entries in the order given.
func MarshalCatalog(entries []types.CatalogEntry) ([]byte, error) {
	catalog := catalogXML{Version: "0.1"}
	for _, entry := range entries {
		catalog.Applications = append(catalog.Applications, applicationElement(entry))
	}
	body, err := xml.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal catalog").
			WithCause(err)
	}
	out := make([]byte, 0, len(catalogHeader)+len(body)+1)
	out = append(out, catalogHeader...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func applicationElement(entry types.CatalogEntry) applicationXML {
	app := entry.App
	element := applicationXML{
		ID:                   typedValueXML{Type: string(app.TypeID), Value: app.FullID},
		PackageName:          app.PackageName,
		Names:                localizedElements(app.Names),
		Summaries:            localizedElements(app.Comments),
		Icon:                 typedValueXML{Type: string(app.Icon.Kind), Value: app.Icon.Name},
		Categories:           app.Categories,
		Keywords:             app.Keywords,
		MimeTypes:            app.MimeTypes,
		Languages:            app.Languages,
		ProjectGroup:         app.ProjectGroup,
		CompulsoryForDesktop: app.CompulsoryForDesktop,
	}
	for _, locale := range app.Descriptions.Locales() {
		element.Descriptions = append(element.Descriptions, descriptionXML{
			Lang:   langAttr(locale),
			Markup: app.Descriptions[locale],
		})
	}
	kinds := make([]string, 0, len(app.URLs))
	for kind := range app.URLs {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		element.URLs = append(element.URLs, typedValueXML{Type: kind, Value: app.URLs[kind]})
	}
	for _, screenshot := range entry.Screenshots {
		shot := screenshotXML{Type: screenshot.Kind}
		for _, image := range screenshot.Images {
			shot.Images = append(shot.Images, screenshotImage{
				Type:   image.Type,
				Width:  image.Width,
				Height: image.Height,
				Value:  image.URL,
			})
		}
		element.Screenshots = append(element.Screenshots, shot)
	}
	return element
}

func localizedElements(text types.LocalizedText) []localizedXML {
	var elements []localizedXML
	for _, locale := range text.Locales() {
		elements = append(elements, localizedXML{Lang: langAttr(locale), Value: text[locale]})
	}
	return elements
}

func langAttr(locale string) string {
	if locale == types.DefaultLocale {
		return ""
	}
	return locale
}

// ReadCatalog parses a catalog fragment written by WriteCatalog.
func (a CatalogFileAdapter) ReadCatalog(path string) ([]types.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read catalog").
			WithCause(err)
	}
	var catalog catalogXML
	if err := xml.Unmarshal(data, &catalog); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse catalog").
			WithCause(err)
	}
	entries := make([]types.CatalogEntry, 0, len(catalog.Applications))
	for _, element := range catalog.Applications {
		entries = append(entries, element.entry())
	}
	return entries, nil
}

// ListIconArchive returns the member names of an icon archive in archive
// order.
func (a CatalogFileAdapter) ListIconArchive(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open icon archive").
			WithCause(err)
	}
	defer file.Close()
	reader := tar.NewReader(file)
	var names []string
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read icon archive").
				WithCause(err)
		}
		names = append(names, header.Name)
	}
}

func (e applicationXML) entry() types.CatalogEntry {
	app := types.Application{
		PackageName:          e.PackageName,
		TypeID:               types.TypeID(e.ID.Type),
		Names:                localizedValues(e.Names),
		Comments:             localizedValues(e.Summaries),
		Descriptions:         types.LocalizedText{},
		Icon:                 types.IconRef{Kind: types.IconKind(e.Icon.Type), Name: e.Icon.Value},
		URLs:                 map[string]string{},
		ProjectGroup:         e.ProjectGroup,
		CompulsoryForDesktop: e.CompulsoryForDesktop,
		Categories:           e.Categories,
		Keywords:             e.Keywords,
		MimeTypes:            e.MimeTypes,
		Languages:            e.Languages,
	}
	app.SetIDFromFilename(e.ID.Value)
	for _, description := range e.Descriptions {
		app.Descriptions[localeOrDefault(description.Lang)] = description.Markup
	}
	for _, url := range e.URLs {
		app.URLs[url.Type] = url.Value
	}
	entry := types.CatalogEntry{App: app}
	for _, shot := range e.Screenshots {
		screenshot := types.Screenshot{Kind: shot.Type}
		for _, image := range shot.Images {
			screenshot.Images = append(screenshot.Images, types.ScreenshotImage{
				Type:   image.Type,
				Width:  image.Width,
				Height: image.Height,
				URL:    image.Value,
			})
		}
		entry.Screenshots = append(entry.Screenshots, screenshot)
	}
	return entry
}

func localizedValues(elements []localizedXML) types.LocalizedText {
	text := types.LocalizedText{}
	for _, element := range elements {
		text[localeOrDefault(element.Lang)] = element.Value
	}
	return text
}

var (
	_ ports.CatalogWriterPort = CatalogFileAdapter{}
	_ ports.CatalogReaderPort = CatalogFileAdapter{}
)

package adapters

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

type appdataXML struct {
	XMLName              xml.Name
	ID                   string                  `xml:"id"`
	Licence              string                  `xml:"licence"`
	MetadataLicense      string                  `xml:"metadata_license"`
	MetadataLicence      string                  `xml:"metadata_licence"`
	Names                []appdataTextXML        `xml:"name"`
	Summaries            []appdataTextXML        `xml:"summary"`
	Descriptions         []appdataDescriptionXML `xml:"description"`
	URLs                 []appdataURLXML         `xml:"url"`
	ProjectGroup         string                  `xml:"project_group"`
	Screenshots          []appdataScreenshotXML  `xml:"screenshots>screenshot"`
	CompulsoryForDesktop []string                `xml:"compulsory_for_desktop"`
}

type appdataTextXML struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type appdataURLXML struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type appdataDescriptionXML struct {
	Lang     string             `xml:"lang,attr"`
	Children []appdataMarkupXML `xml:",any"`
}

type appdataMarkupXML struct {
	XMLName xml.Name
	Lang    string             `xml:"lang,attr"`
	Inner   string             `xml:",innerxml"`
	Items   []appdataMarkupXML `xml:"li"`
}

type appdataScreenshotXML struct {
	Type   string            `xml:"type,attr"`
	Value  string            `xml:",chardata"`
	Images []appdataImageXML `xml:"image"`
}

type appdataImageXML struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// AppDataFileAdapter locates and reads AppData sidecars. Package sidecars
// live in the staging tree; extra sidecars are kept per type id under
// ExtraDir.
type AppDataFileAdapter struct {
	StagingDir string
	ExtraDir   string
}

func NewAppDataFileAdapter(stagingDir string, extraDir string) AppDataFileAdapter {
	return AppDataFileAdapter{StagingDir: stagingDir, ExtraDir: extraDir}
}

func (a AppDataFileAdapter) PackageSidecar(app types.Application) (string, bool) {
	if strings.TrimSpace(a.StagingDir) == "" || app.ID == "" {
		return "", false
	}
	return existingFile(filepath.Join(a.StagingDir, "usr", "share", "appdata", app.ID+".appdata.xml"))
}

func (a AppDataFileAdapter) ExtraSidecar(app types.Application) (string, bool) {
	if strings.TrimSpace(a.ExtraDir) == "" || app.ID == "" {
		return "", false
	}
	return existingFile(filepath.Join(a.ExtraDir, string(app.TypeID), app.ID+".appdata.xml"))
}

func (a AppDataFileAdapter) Discard(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete AppData file").
			WithCause(err)
	}
	return nil
}

func (a AppDataFileAdapter) Load(path string) (types.OverrideDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.OverrideDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read AppData file").
			WithCause(err)
	}
	var doc appdataXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return types.OverrideDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse AppData file").
			WithCause(err)
	}
	switch doc.XMLName.Local {
	case "application", "component":
	default:
		return types.OverrideDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("AppData root element must be <application> or <component>")
	}
	return doc.toOverride(), nil
}

func (d appdataXML) toOverride() types.OverrideDocument {
	doc := types.OverrideDocument{
		ID:           strings.TrimSpace(d.ID),
		Licence:      firstNonEmpty(d.Licence, d.MetadataLicense, d.MetadataLicence),
		Names:        localizedText(d.Names),
		Summaries:    localizedText(d.Summaries),
		URLs:         map[string]string{},
		ProjectGroup: strings.TrimSpace(d.ProjectGroup),
		Descriptions: types.LocalizedText{},
	}
	for _, url := range d.URLs {
		kind := strings.TrimSpace(url.Type)
		value := strings.TrimSpace(url.Value)
		if kind == "" || value == "" {
			continue
		}
		doc.URLs[kind] = value
	}
	for _, description := range d.Descriptions {
		appendDescription(doc.Descriptions, description)
	}
	for _, screenshot := range d.Screenshots {
		if url := screenshot.url(); url != "" {
			doc.Screenshots = append(doc.Screenshots, url)
		}
	}
	for _, desktop := range d.CompulsoryForDesktop {
		if desktop = strings.TrimSpace(desktop); desktop != "" {
			doc.CompulsoryForDesktop = append(doc.CompulsoryForDesktop, desktop)
		}
	}
	return doc
}

func (s appdataScreenshotXML) url() string {
	for _, image := range s.Images {
		if image.Type == "source" || image.Type == "" {
			if value := strings.TrimSpace(image.Value); value != "" {
				return value
			}
		}
	}
	if len(s.Images) > 0 {
		return strings.TrimSpace(s.Images[0].Value)
	}
	return strings.TrimSpace(s.Value)
}

func localizedText(values []appdataTextXML) types.LocalizedText {
	text := types.LocalizedText{}
	for _, value := range values {
		trimmed := collapseWhitespace(value.Value)
		if trimmed == "" {
			continue
		}
		text[localeOrDefault(value.Lang)] = trimmed
	}
	return text
}

// appendDescription splits description markup per locale. Paragraphs and
// list items carry their own xml:lang; a list is emitted once per locale
// that has items in it.
func appendDescription(out types.LocalizedText, description appdataDescriptionXML) {
	parent := localeOrDefault(description.Lang)
	for _, child := range description.Children {
		switch child.XMLName.Local {
		case "p":
			locale := parent
			if child.Lang != "" {
				locale = child.Lang
			}
			out[locale] += "<p>" + collapseWhitespace(child.Inner) + "</p>"
		case "ul", "ol":
			items := map[string]string{}
			var order []string
			for _, item := range child.Items {
				locale := parent
				if item.Lang != "" {
					locale = item.Lang
				}
				if _, ok := items[locale]; !ok {
					order = append(order, locale)
				}
				items[locale] += "<li>" + collapseWhitespace(item.Inner) + "</li>"
			}
			for _, locale := range order {
				out[locale] += "<" + child.XMLName.Local + ">" + items[locale] + "</" + child.XMLName.Local + ">"
			}
		}
	}
}

func localeOrDefault(lang string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	return types.DefaultLocale
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func existingFile(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

var _ ports.OverrideStorePort = AppDataFileAdapter{}

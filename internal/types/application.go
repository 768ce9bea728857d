package types

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultLocale is the locale tag every published record must carry a
// name and summary for.
const DefaultLocale = "C"

type TypeID string

const (
	TypeIDDesktop     TypeID = "desktop"
	TypeIDFont        TypeID = "font"
	TypeIDInputMethod TypeID = "inputmethod"
	TypeIDCodec       TypeID = "codec"
)

// LocalizedText maps a locale tag to a translated string.
type LocalizedText map[string]string

// Default returns the value for the "C" locale. Presence is what counts;
// a blank value is still present.
func (t LocalizedText) Default() (string, bool) {
	value, ok := t[DefaultLocale]
	return value, ok
}

// Locales returns the locale tags with "C" first and the rest sorted.
func (t LocalizedText) Locales() []string {
	locales := make([]string, 0, len(t))
	for locale := range t {
		if locale == DefaultLocale {
			continue
		}
		locales = append(locales, locale)
	}
	slices.Sort(locales)
	if _, ok := t[DefaultLocale]; ok {
		locales = append([]string{DefaultLocale}, locales...)
	}
	return locales
}

type IconKind string

const (
	IconKindCached IconKind = "cached"
	IconKindStock  IconKind = "stock"
)

type IconRef struct {
	Kind IconKind
	Name string
	// Source is the staged image a cached icon is rendered from.
	Source string
}

func (i IconRef) IsZero() bool {
	return strings.TrimSpace(i.Name) == ""
}

// ScreenshotSource is either a remote URL or a file on the local disk.
type ScreenshotSource struct {
	URL  string
	Path string
}

func (s ScreenshotSource) IsRemote() bool {
	return strings.TrimSpace(s.URL) != ""
}

func (s ScreenshotSource) String() string {
	if s.IsRemote() {
		return s.URL
	}
	return s.Path
}

// Application is one candidate catalog entry.
type Application struct {
	ID                   string
	FullID               string
	PackageName          string
	TypeID               TypeID
	Names                LocalizedText
	Comments             LocalizedText
	Descriptions         LocalizedText
	Icon                 IconRef
	URLs                 map[string]string
	ProjectGroup         string
	CompulsoryForDesktop []string
	Screenshots          []ScreenshotSource
	RequiresSidecar      bool

	Categories []string
	Keywords   []string
	MimeTypes  []string
	Languages  []string
}

func NewApplication(pkg PackageInfo, typeID TypeID) Application {
	return Application{
		PackageName:  pkg.Name,
		TypeID:       typeID,
		Names:        LocalizedText{},
		Comments:     LocalizedText{},
		Descriptions: LocalizedText{},
		URLs:         map[string]string{},
	}
}

// SetIDFromFilename derives ID and FullID from a file name: the full id is
// the base name and the short id drops its extension.
func (a *Application) SetIDFromFilename(path string) {
	base := filepath.Base(path)
	a.FullID = base
	a.ID = strings.TrimSuffix(base, filepath.Ext(base))
	if a.ID == "" {
		a.ID = base
	}
}

func (a Application) HasCompulsoryDesktop(desktop string) bool {
	return slices.Contains(a.CompulsoryForDesktop, desktop)
}

// Clone returns a deep copy so the session can hold records nobody else
// can mutate.
func (a Application) Clone() Application {
	clone := a
	clone.Names = maps.Clone(a.Names)
	clone.Comments = maps.Clone(a.Comments)
	clone.Descriptions = maps.Clone(a.Descriptions)
	clone.URLs = maps.Clone(a.URLs)
	clone.CompulsoryForDesktop = slices.Clone(a.CompulsoryForDesktop)
	clone.Screenshots = slices.Clone(a.Screenshots)
	clone.Categories = slices.Clone(a.Categories)
	clone.Keywords = slices.Clone(a.Keywords)
	clone.MimeTypes = slices.Clone(a.MimeTypes)
	clone.Languages = slices.Clone(a.Languages)
	return clone
}

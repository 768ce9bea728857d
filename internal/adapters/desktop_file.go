package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/ini.v1"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const desktopEntryGroup = "Desktop Entry"

// DesktopFileParser reads freedesktop.org desktop entries.
type DesktopFileParser struct {
	Icons ports.IconStorePort
}

func NewDesktopFileParser(icons ports.IconStorePort) DesktopFileParser {
	return DesktopFileParser{Icons: icons}
}

func (p DesktopFileParser) Parse(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, file.Path)
	if err != nil {
		return types.Application{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse desktop file").
			WithCause(err)
	}
	section, err := cfg.GetSection(desktopEntryGroup)
	if err != nil {
		return types.Application{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("desktop file has no [Desktop Entry] group").
			WithCause(err)
	}
	if section.Key("NoDisplay").MustBool(false) {
		log.Ctx(ctx).Debug().Str("file", file.RelPath).Msg("desktop file has NoDisplay set")
		return types.Application{}, false, nil
	}
	if kind := strings.TrimSpace(section.Key("Type").String()); kind != "" && kind != "Application" {
		return types.Application{}, false, nil
	}

	app := types.NewApplication(pkg, types.TypeIDDesktop)
	app.SetIDFromFilename(file.Path)
	var iconName string
	for _, key := range section.Keys() {
		name, locale := splitLocalizedKey(key.Name())
		value := strings.TrimSpace(key.String())
		if value == "" {
			continue
		}
		switch name {
		case "Name":
			app.Names[locale] = value
		case "Comment":
			app.Comments[locale] = value
		case "Icon":
			if locale == types.DefaultLocale {
				iconName = value
			}
		case "Categories":
			if locale == types.DefaultLocale {
				app.Categories = splitDesktopList(value)
			}
		case "Keywords":
			if locale == types.DefaultLocale {
				app.Keywords = splitDesktopList(value)
			}
		case "MimeType":
			app.MimeTypes = splitDesktopList(value)
		}
	}
	if homepage := strings.TrimSpace(pkg.Homepage); homepage != "" {
		app.URLs["homepage"] = homepage
	}
	if iconName != "" {
		app.Icon = resolveIcon(ctx, p.Icons, app.ID, iconName)
	}
	return app, true, nil
}

// splitLocalizedKey splits "Name[de_DE]" into "Name" and "de_DE". Keys
// without a locale belong to the default locale.
func splitLocalizedKey(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, types.DefaultLocale
	}
	locale := key[open+1 : len(key)-1]
	if locale == "" {
		return key[:open], types.DefaultLocale
	}
	return key[:open], locale
}

func splitDesktopList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// resolveIcon looks a named icon up and returns an empty reference when it
// cannot be found or decoded.
func resolveIcon(ctx context.Context, icons ports.IconStorePort, id string, name string) types.IconRef {
	if icons == nil {
		return types.IconRef{}
	}
	ref, ok, err := icons.Resolve(id, name)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("icon", name).Msg("failed to resolve icon")
		return types.IconRef{}
	}
	if !ok {
		log.Ctx(ctx).Info().Str("icon", name).Msg("icon not found")
		return types.IconRef{}
	}
	return ref
}

var _ ports.FileParserPort = DesktopFileParser{}

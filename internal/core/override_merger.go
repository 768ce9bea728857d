package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

type MergeOutcome int

const (
	// MergeNoSidecar means no usable sidecar exists and none is required.
	MergeNoSidecar MergeOutcome = iota
	MergeApplied
	// MergeDiscarded means a sidecar was found but failed the id or
	// licence gate; the record keeps its native fields.
	MergeDiscarded
	// MergeMissingRequired means the record must be rejected.
	MergeMissingRequired
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeNoSidecar:
		return "no-sidecar"
	case MergeApplied:
		return "applied"
	case MergeDiscarded:
		return "discarded"
	case MergeMissingRequired:
		return "missing-required"
	default:
		return "unknown"
	}
}

// OverrideMerger applies AppData sidecar documents onto parsed records.
type OverrideMerger struct {
	Store     ports.OverrideStorePort
	Validator ports.SidecarValidatorPort
	licences  map[string]struct{}
}

func NewOverrideMerger(store ports.OverrideStorePort, validator ports.SidecarValidatorPort, licences []string) OverrideMerger {
	allowed := map[string]struct{}{}
	for _, licence := range licences {
		allowed[licence] = struct{}{}
	}
	return OverrideMerger{Store: store, Validator: validator, licences: allowed}
}

func (m OverrideMerger) Merge(ctx context.Context, app *types.Application) MergeOutcome {
	logger := log.Ctx(ctx)
	path, ok := m.locate(ctx, *app)
	if !ok {
		return m.missing(ctx, *app)
	}
	doc, err := m.Store.Load(path)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("AppData file could not be parsed")
		return m.missing(ctx, *app)
	}
	m.validate(ctx, path)

	if doc.ID != app.ID && doc.ID != app.FullID {
		logger.Warn().Str("appdata_id", doc.ID).Msg("the AppData id does not match")
		return MergeDiscarded
	}
	if _, ok := m.licences[doc.Licence]; !ok {
		logger.Warn().Str("licence", doc.Licence).Msg("the AppData licence is not okay")
		return MergeDiscarded
	}
	ApplyOverride(ctx, app, doc)
	return MergeApplied
}

// locate picks the sidecar to use. A package-shipped sidecar always wins
// and deletes a supplied extra one for the same id.
func (m OverrideMerger) locate(ctx context.Context, app types.Application) (string, bool) {
	if m.Store == nil {
		return "", false
	}
	packagePath, hasPackage := m.Store.PackageSidecar(app)
	extraPath, hasExtra := m.Store.ExtraSidecar(app)
	switch {
	case hasPackage && hasExtra:
		log.Ctx(ctx).Info().Str("file", extraPath).Msg("deleting extra AppData file as upstream AppData file exists")
		if err := m.Store.Discard(extraPath); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("file", extraPath).Msg("failed to delete extra AppData file")
		}
		return packagePath, true
	case hasExtra:
		return extraPath, true
	case hasPackage:
		return packagePath, true
	default:
		return "", false
	}
}

func (m OverrideMerger) missing(ctx context.Context, app types.Application) MergeOutcome {
	if app.RequiresSidecar {
		log.Ctx(ctx).Info().Str("full_id", app.FullID).Msg("requires AppData")
		return MergeMissingRequired
	}
	return MergeNoSidecar
}

// validate surfaces validator diagnostics as warnings only.
func (m OverrideMerger) validate(ctx context.Context, path string) {
	if m.Validator == nil {
		return
	}
	diagnostics, err := m.Validator.Validate(ctx, path)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("file", path).Msg("AppData validator could not run")
		return
	}
	for _, line := range diagnostics {
		log.Ctx(ctx).Warn().Str("file", path).Msgf("AppData did not validate: %s", line)
	}
}

// ApplyOverride copies the sidecar fields onto app. Names, comments and
// project group only change when the sidecar has a value, URLs and
// compulsory desktops are merged, and descriptions are always replaced.
func ApplyOverride(ctx context.Context, app *types.Application, doc types.OverrideDocument) {
	if len(doc.Names) > 0 {
		app.Names = cloneText(doc.Names)
	}
	if len(doc.Summaries) > 0 {
		app.Comments = cloneText(doc.Summaries)
	}
	if len(doc.URLs) > 0 {
		if app.URLs == nil {
			app.URLs = map[string]string{}
		}
		for kind, url := range doc.URLs {
			app.URLs[kind] = url
		}
	}
	if doc.ProjectGroup != "" {
		app.ProjectGroup = doc.ProjectGroup
	}
	app.Descriptions = cloneText(doc.Descriptions)

	for _, url := range doc.Screenshots {
		log.Ctx(ctx).Info().Str("url", url).Msg("adding screenshot")
		app.Screenshots = append(app.Screenshots, types.ScreenshotSource{URL: url})
	}
	for _, desktop := range doc.CompulsoryForDesktop {
		if !app.HasCompulsoryDesktop(desktop) {
			app.CompulsoryForDesktop = append(app.CompulsoryForDesktop, desktop)
		}
	}
}

func cloneText(text types.LocalizedText) types.LocalizedText {
	clone := types.LocalizedText{}
	for locale, value := range text {
		clone[locale] = value
	}
	return clone
}

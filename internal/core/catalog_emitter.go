package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

type EmitResult struct {
	Written         bool
	CatalogPath     string
	IconArchivePath string
}

// CatalogEmitter writes the catalog fragment and icon archive of a
// session.
type CatalogEmitter struct {
	Writer      ports.CatalogWriterPort
	Screenshots ports.ScreenshotStorePort
	Icons       ports.IconStorePort
	IconDir     string
}

func NewCatalogEmitter(writer ports.CatalogWriterPort, screenshots ports.ScreenshotStorePort, icons ports.IconStorePort, iconDir string) CatalogEmitter {
	return CatalogEmitter{Writer: writer, Screenshots: screenshots, Icons: icons, IconDir: iconDir}
}

// Emit writes nothing for a session without accepted records.
func (e CatalogEmitter) Emit(ctx context.Context, session *Session, packageName string) (EmitResult, error) {
	assert.NotEmpty(ctx, packageName, "package name must be set")
	if !session.HasValidContent() {
		log.Ctx(ctx).Debug().Msg("no valid content, skipping catalog")
		return EmitResult{}, nil
	}

	accepted := session.Accepted()
	entries := make([]types.CatalogEntry, 0, len(accepted))
	for _, app := range accepted {
		e.storeIcon(ctx, app)
		entries = append(entries, types.CatalogEntry{
			App:         app,
			Screenshots: e.publishScreenshots(ctx, app),
		})
	}

	catalogPath, err := e.Writer.WriteCatalog(packageName, entries)
	if err != nil {
		return EmitResult{}, err
	}
	archivePath, err := e.Writer.WriteIconArchive(packageName, e.IconDir)
	if err != nil {
		return EmitResult{}, err
	}
	log.Ctx(ctx).Info().
		Str("catalog", catalogPath).
		Str("icons", archivePath).
		Int("applications", len(entries)).
		Msg("wrote catalog")
	return EmitResult{Written: true, CatalogPath: catalogPath, IconArchivePath: archivePath}, nil
}

// storeIcon renders the cached icon of an accepted record. Only accepted
// records reach this point, so a rejected duplicate never replaces the icon
// of the record that was kept.
func (e CatalogEmitter) storeIcon(ctx context.Context, app types.Application) {
	if e.Icons == nil || app.Icon.Kind != types.IconKindCached || app.Icon.Source == "" {
		return
	}
	if err := e.Icons.Store(app.Icon); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("app_id", app.ID).Msg("failed to store icon")
	}
}

func (e CatalogEmitter) publishScreenshots(ctx context.Context, app types.Application) []types.Screenshot {
	if e.Screenshots == nil || len(app.Screenshots) == 0 {
		return nil
	}
	screenshots, err := e.Screenshots.Publish(ctx, app)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("app_id", app.ID).Msg("failed to publish screenshots")
	}
	return screenshots
}

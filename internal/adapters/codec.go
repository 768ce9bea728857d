package adapters

import (
	"context"
	"path"
	"slices"
	"strings"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const codecStockIcon = "application-x-executable"

// CodecParser describes a whole GStreamer plugin package as one record;
// the plugin names become keywords.
type CodecParser struct{}

func NewCodecParser() CodecParser {
	return CodecParser{}
}

func (p CodecParser) ParsePackage(ctx context.Context, pkg types.PackageInfo, files []types.ExtractedFile) (types.Application, bool, error) {
	var plugins []string
	for _, file := range files {
		base := path.Base(file.RelPath)
		if !strings.HasPrefix(base, "libgst") || !strings.HasSuffix(base, ".so") {
			continue
		}
		plugin := strings.TrimSuffix(strings.TrimPrefix(base, "libgst"), ".so")
		if plugin != "" && !slices.Contains(plugins, plugin) {
			plugins = append(plugins, plugin)
		}
	}
	if len(plugins) == 0 {
		return types.Application{}, false, nil
	}
	slices.Sort(plugins)

	app := types.NewApplication(pkg, types.TypeIDCodec)
	app.ID = pkg.Name
	app.FullID = pkg.Name + ".codec"
	app.RequiresSidecar = true
	app.Names[types.DefaultLocale] = pkg.Name
	if summary := strings.TrimSpace(pkg.Summary); summary != "" {
		app.Comments[types.DefaultLocale] = summary
	}
	app.Keywords = plugins
	app.Icon = types.IconRef{Kind: types.IconKindStock, Name: codecStockIcon}
	if homepage := strings.TrimSpace(pkg.Homepage); homepage != "" {
		app.URLs["homepage"] = homepage
	}
	return app, true, nil
}

var _ ports.PackageParserPort = CodecParser{}

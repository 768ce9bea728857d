package adapters

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/image/font/sfnt"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const fontStockIcon = "application-x-font-ttf"

// FontFileParser reads TrueType and OpenType fonts. Fonts carry no
// summary or description of their own, so every record needs a sidecar.
type FontFileParser struct{}

func NewFontFileParser() FontFileParser {
	return FontFileParser{}
}

func (p FontFileParser) Parse(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return types.Application{}, false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read font file").
			WithCause(err)
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return types.Application{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse font file").
			WithCause(err)
	}
	var buf sfnt.Buffer
	family := fontName(font, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	if family == "" {
		return types.Application{}, false, nil
	}
	subfamily := fontName(font, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)

	app := types.NewApplication(pkg, types.TypeIDFont)
	app.SetIDFromFilename(file.Path)
	app.RequiresSidecar = true
	app.Names[types.DefaultLocale] = family
	if subfamily != "" {
		app.Comments[types.DefaultLocale] = subfamily
	}
	app.Icon = types.IconRef{Kind: types.IconKindStock, Name: fontStockIcon}
	if homepage := strings.TrimSpace(pkg.Homepage); homepage != "" {
		app.URLs["homepage"] = homepage
	}
	return app, true, nil
}

// fontName returns the first name table entry present among ids.
func fontName(font *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		value, err := font.Name(buf, id)
		if err == nil && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

var _ ports.FileParserPort = FontFileParser{}

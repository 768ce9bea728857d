package adapters

import (
	"context"
	"encoding/xml"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

const inputMethodStockIcon = "input-keyboard"

type imComponentXML struct {
	XMLName     xml.Name      `xml:"component"`
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	Homepage    string        `xml:"homepage"`
	Engines     []imEngineXML `xml:"engines>engine"`
}

type imEngineXML struct {
	Name        string `xml:"name"`
	LongName    string `xml:"longname"`
	Description string `xml:"description"`
	Language    string `xml:"language"`
	Icon        string `xml:"icon"`
}

// InputMethodComponentParser reads IBus component descriptions. Only the
// first statically listed engine describes the record.
type InputMethodComponentParser struct {
	Icons ports.IconStorePort
}

func NewInputMethodComponentParser(icons ports.IconStorePort) InputMethodComponentParser {
	return InputMethodComponentParser{Icons: icons}
}

func (p InputMethodComponentParser) Parse(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return types.Application{}, false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read input method component").
			WithCause(err)
	}
	var component imComponentXML
	if err := xml.Unmarshal(data, &component); err != nil {
		// other XML documents share the content type
		return types.Application{}, false, nil
	}
	if len(component.Engines) == 0 {
		return types.Application{}, false, nil
	}
	engine := component.Engines[0]

	app := types.NewApplication(pkg, types.TypeIDInputMethod)
	app.SetIDFromFilename(file.Path)
	app.RequiresSidecar = true
	name := strings.TrimSpace(engine.LongName)
	if name == "" {
		name = strings.TrimSpace(engine.Name)
	}
	if name != "" {
		app.Names[types.DefaultLocale] = name
	}
	comment := strings.TrimSpace(engine.Description)
	if comment == "" {
		comment = strings.TrimSpace(component.Description)
	}
	if comment != "" {
		app.Comments[types.DefaultLocale] = comment
	}
	if language := strings.TrimSpace(engine.Language); language != "" {
		app.Languages = []string{language}
	}
	homepage := strings.TrimSpace(component.Homepage)
	if homepage == "" {
		homepage = strings.TrimSpace(pkg.Homepage)
	}
	if homepage != "" {
		app.URLs["homepage"] = homepage
	}
	app.Icon = inputMethodIcon(ctx, p.Icons, app.ID, engine.Icon)
	return app, true, nil
}

// inputMethodIcon resolves an engine icon and falls back to the stock
// keyboard icon.
func inputMethodIcon(ctx context.Context, icons ports.IconStorePort, id string, name string) types.IconRef {
	if name = strings.TrimSpace(name); name != "" {
		if ref := resolveIcon(ctx, icons, id, name); !ref.IsZero() {
			return ref
		}
	}
	return types.IconRef{Kind: types.IconKindStock, Name: inputMethodStockIcon}
}

var _ ports.FileParserPort = InputMethodComponentParser{}

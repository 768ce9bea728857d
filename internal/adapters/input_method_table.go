package adapters

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ZanzyTHEbar/errbuilder-go"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// InputMethodTableParser reads ibus-table databases, whose "ime" table
// holds attribute/value rows describing the input method.
type InputMethodTableParser struct {
	Icons ports.IconStorePort
}

func NewInputMethodTableParser(icons ports.IconStorePort) InputMethodTableParser {
	return InputMethodTableParser{Icons: icons}
}

func (p InputMethodTableParser) Parse(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool, error) {
	attrs, err := readIMEAttributes(ctx, file.Path)
	if err != nil {
		return types.Application{}, false, err
	}
	if len(attrs) == 0 {
		return types.Application{}, false, nil
	}

	app := types.NewApplication(pkg, types.TypeIDInputMethod)
	app.SetIDFromFilename(file.Path)
	app.RequiresSidecar = true
	for attr, value := range attrs {
		switch {
		case attr == "name":
			app.Names[types.DefaultLocale] = value
		case strings.HasPrefix(attr, "name."):
			app.Names[strings.TrimPrefix(attr, "name.")] = value
		case attr == "description":
			app.Comments[types.DefaultLocale] = value
		case attr == "languages":
			app.Languages = splitIMELanguages(value)
		}
	}
	if homepage := strings.TrimSpace(pkg.Homepage); homepage != "" {
		app.URLs["homepage"] = homepage
	}
	app.Icon = inputMethodIcon(ctx, p.Icons, app.ID, attrs["icon"])
	return app, true, nil
}

func readIMEAttributes(ctx context.Context, path string) (map[string]string, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open input method table").
			WithCause(err)
	}
	defer db.Close()

	query, args, err := sq.Select("attr", "val").From("ime").ToSql()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to build input method query").
			WithCause(err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to query input method table").
			WithCause(err)
	}
	defer rows.Close()

	attrs := map[string]string{}
	for rows.Next() {
		var attr, value sql.NullString
		if err := rows.Scan(&attr, &value); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read input method table").
				WithCause(err)
		}
		key := strings.ToLower(strings.TrimSpace(attr.String))
		trimmed := strings.TrimSpace(value.String)
		if key == "" || trimmed == "" {
			continue
		}
		attrs[key] = trimmed
	}
	if err := rows.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read input method table").
			WithCause(err)
	}
	return attrs, nil
}

func splitIMELanguages(value string) []string {
	var languages []string
	for _, language := range strings.Split(value, ",") {
		language = strings.TrimSpace(language)
		if language != "" {
			languages = append(languages, language)
		}
	}
	return languages
}

var _ ports.FileParserPort = InputMethodTableParser{}

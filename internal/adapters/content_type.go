package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gabriel-vasile/mimetype"

	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// ContentTypeAdapter classifies staged files by their content, falling
// back to the extension for formats without a reliable signature.
type ContentTypeAdapter struct{}

func NewContentTypeAdapter() ContentTypeAdapter {
	return ContentTypeAdapter{}
}

// Detect returns an empty content type for files nothing can parse.
func (a ContentTypeAdapter) Detect(path string) (types.ContentType, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("file not found").
			WithCause(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return types.ContentTypeSymlink, nil
	}
	if info.IsDir() {
		return "", nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".desktop":
		return types.ContentTypeDesktop, nil
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to detect content type").
			WithCause(err)
	}
	for mime := detected; mime != nil; mime = mime.Parent() {
		switch {
		case mime.Is("font/ttf"), mime.Is("application/x-font-ttf"):
			return types.ContentTypeFontTTF, nil
		case mime.Is("font/otf"), mime.Is("application/x-font-otf"):
			return types.ContentTypeFontOTF, nil
		case mime.Is("application/x-sqlite3"), mime.Is("application/vnd.sqlite3"):
			return types.ContentTypeSQLite, nil
		case mime.Is("text/xml"), mime.Is("application/xml"):
			return types.ContentTypeXML, nil
		}
	}
	return "", nil
}

var _ ports.ContentTypePort = ContentTypeAdapter{}

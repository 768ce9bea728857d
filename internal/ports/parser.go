package ports

import (
	"context"

	"appstream-builder/internal/types"
)

// ContentTypePort classifies an extracted file.
type ContentTypePort interface {
	Detect(path string) (types.ContentType, error)
}

// FileParserPort turns one extracted file into a candidate record. The
// boolean is false when the file is valid but describes nothing that
// belongs in the catalog (hidden desktop entries, for instance).
type FileParserPort interface {
	Parse(ctx context.Context, pkg types.PackageInfo, file types.ExtractedFile) (types.Application, bool, error)
}

// PackageParserPort builds a single record from every file of a package.
type PackageParserPort interface {
	ParsePackage(ctx context.Context, pkg types.PackageInfo, files []types.ExtractedFile) (types.Application, bool, error)
}

// ParserLookupPort selects the parser for a content type.
type ParserLookupPort interface {
	Lookup(contentType types.ContentType) (FileParserPort, bool)
}

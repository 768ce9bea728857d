package adapters

import (
	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// ParserRegistry maps content types to file parsers.
type ParserRegistry struct {
	parsers map[types.ContentType]ports.FileParserPort
}

func NewParserRegistry() ParserRegistry {
	return ParserRegistry{parsers: map[types.ContentType]ports.FileParserPort{}}
}

// NewDefaultParserRegistry wires the parsers for every supported format.
func NewDefaultParserRegistry(icons ports.IconStorePort) ParserRegistry {
	registry := NewParserRegistry()
	registry.Register(types.ContentTypeDesktop, NewDesktopFileParser(icons))
	fonts := NewFontFileParser()
	registry.Register(types.ContentTypeFontTTF, fonts)
	registry.Register(types.ContentTypeFontOTF, fonts)
	registry.Register(types.ContentTypeXML, NewInputMethodComponentParser(icons))
	registry.Register(types.ContentTypeSQLite, NewInputMethodTableParser(icons))
	return registry
}

func (r ParserRegistry) Register(contentType types.ContentType, parser ports.FileParserPort) {
	r.parsers[contentType] = parser
}

func (r ParserRegistry) Lookup(contentType types.ContentType) (ports.FileParserPort, bool) {
	parser, ok := r.parsers[contentType]
	return parser, ok
}

var _ ports.ParserLookupPort = ParserRegistry{}

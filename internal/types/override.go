package types

// OverrideDocument is the parsed form of an AppData sidecar file.
type OverrideDocument struct {
	ID                   string
	Licence              string
	Names                LocalizedText
	Summaries            LocalizedText
	URLs                 map[string]string
	ProjectGroup         string
	Descriptions         LocalizedText
	Screenshots          []string
	CompulsoryForDesktop []string
}

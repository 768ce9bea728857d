package types

type ScreenshotImage struct {
	Type   string
	Width  int
	Height int
	URL    string
}

type Screenshot struct {
	Kind   string
	Images []ScreenshotImage
}

// CatalogEntry is an accepted record together with its published
// screenshots.
type CatalogEntry struct {
	App         Application
	Screenshots []Screenshot
}

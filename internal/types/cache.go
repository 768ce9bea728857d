package types

import "time"

// CacheEntry is one downloaded screenshot in the screenshot cache.
type CacheEntry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// CacheRetentionPolicy selects the cache entries a prune keeps. Entries
// younger than KeepDays and the KeepLast most recent entries survive.
type CacheRetentionPolicy struct {
	KeepLast int
	KeepDays int
	DryRun   bool
}

type CachePrunePlan struct {
	Keep   []CacheEntry
	Delete []CacheEntry
}

package app

import (
	"sort"
	"time"

	"appstream-builder/internal/types"
)

// BuildCachePrunePlan splits cache entries into those a prune keeps and
// those it deletes. Without any retention rule everything is kept.
func BuildCachePrunePlan(entries []types.CacheEntry, policy types.CacheRetentionPolicy, now time.Time) types.CachePrunePlan {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	normalized := normalizeRetentionPolicy(policy)
	if normalized.KeepLast == 0 && normalized.KeepDays == 0 {
		return types.CachePrunePlan{Keep: append([]types.CacheEntry(nil), entries...)}
	}

	keepNames := map[string]struct{}{}
	if normalized.KeepDays > 0 {
		cutoff := now.AddDate(0, 0, -normalized.KeepDays)
		for _, entry := range entries {
			if !entry.ModTime.IsZero() && !entry.ModTime.Before(cutoff) {
				keepNames[entry.Name] = struct{}{}
			}
		}
	}
	if normalized.KeepLast > 0 {
		sorted := append([]types.CacheEntry(nil), entries...)
		sort.Slice(sorted, func(i, j int) bool {
			if !sorted[i].ModTime.Equal(sorted[j].ModTime) {
				return sorted[i].ModTime.After(sorted[j].ModTime)
			}
			return sorted[i].Name < sorted[j].Name
		})
		limit := min(normalized.KeepLast, len(sorted))
		for i := 0; i < limit; i++ {
			keepNames[sorted[i].Name] = struct{}{}
		}
	}

	var plan types.CachePrunePlan
	for _, entry := range entries {
		if _, ok := keepNames[entry.Name]; ok {
			plan.Keep = append(plan.Keep, entry)
		} else {
			plan.Delete = append(plan.Delete, entry)
		}
	}
	return plan
}

func normalizeRetentionPolicy(policy types.CacheRetentionPolicy) types.CacheRetentionPolicy {
	normalized := policy
	if normalized.KeepLast < 0 {
		normalized.KeepLast = 0
	}
	if normalized.KeepDays < 0 {
		normalized.KeepDays = 0
	}
	return normalized
}

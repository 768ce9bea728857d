package app

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"appstream-builder/internal/types"
)

// PruneCache removes downloaded screenshots that fall outside the
// retention policy. Mirrored screenshots are never touched.
func (s Service) PruneCache(ctx context.Context, req PruneRequest) (PruneResult, error) {
	if req.KeepLast < 0 || req.KeepDays < 0 {
		return PruneResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("retention values must not be negative")
	}
	entries, err := s.Cache.List()
	if err != nil {
		return PruneResult{}, err
	}
	policy := types.CacheRetentionPolicy{
		KeepLast: req.KeepLast,
		KeepDays: req.KeepDays,
		DryRun:   req.DryRun,
	}
	plan := BuildCachePrunePlan(entries, policy, timeNow(s.Clock))
	var freed int64
	for _, entry := range plan.Delete {
		freed += entry.Size
	}
	if policy.DryRun {
		return PruneResult{
			KeepCount:   len(plan.Keep),
			DeleteCount: len(plan.Delete),
			FreedBytes:  freed,
			DryRun:      true,
		}, nil
	}
	var deleted []string
	for _, entry := range plan.Delete {
		if err := s.Cache.Delete(entry.Name); err != nil {
			return PruneResult{}, err
		}
		log.Ctx(ctx).Debug().Str("entry", entry.Name).Msg("deleted cached screenshot")
		deleted = append(deleted, entry.Name)
	}
	return PruneResult{
		KeepCount:   len(plan.Keep),
		DeleteCount: len(deleted),
		Deleted:     deleted,
		FreedBytes:  freed,
	}, nil
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}

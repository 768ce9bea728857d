package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"appstream-builder/internal/policies"
	"appstream-builder/internal/ports"
	"appstream-builder/internal/types"
)

// AcceptancePolicy decides which parsed records are published.
type AcceptancePolicy struct {
	Blacklist     policies.PatternList
	ProjectGroups policies.ProjectGroupPolicy
	Merger        OverrideMerger
	Screenshots   ports.ScreenshotOverridePort
}

func NewAcceptancePolicy(idBlacklist []string, merger OverrideMerger, screenshots ports.ScreenshotOverridePort) AcceptancePolicy {
	return AcceptancePolicy{
		Blacklist:     policies.NewPatternList(idBlacklist),
		ProjectGroups: policies.NewProjectGroupPolicy(policies.DefaultProjectGroupRules),
		Merger:        merger,
		Screenshots:   screenshots,
	}
}

// Evaluate runs the rules in order and stops at the first rejection. The
// record is enriched in place; on acceptance a copy is registered in the
// session.
func (p AcceptancePolicy) Evaluate(ctx context.Context, app *types.Application, session *Session) types.Decision {
	decision := p.evaluate(ctx, app, session)
	if !decision.Accepted {
		session.Reject(app.ID, decision.Reason)
		return decision
	}
	session.Accept(*app)
	return decision
}

func (p AcceptancePolicy) evaluate(ctx context.Context, app *types.Application, session *Session) types.Decision {
	logger := log.Ctx(ctx)

	if pattern, ok := p.Blacklist.Match(app.ID); ok {
		logger.Info().Str("pattern", pattern).Msg("application is blacklisted")
		return types.Reject(types.RejectBlacklisted)
	}

	// packages shipping the same desktop file in two install paths only
	// need one entry
	if session.Contains(app.ID) {
		logger.Info().Str("package", app.PackageName).Msg("duplicate ID in package")
		return types.Reject(types.RejectDuplicate)
	}

	if p.Merger.Merge(ctx, app) == MergeMissingRequired {
		return types.Reject(types.RejectMissingRequiredSidecar)
	}

	p.inferProjectGroup(ctx, app)

	if missing := missingFields(ctx, *app); len(missing) > 0 {
		return types.Decision{Reason: missing[0], Missing: missing}
	}

	p.substituteScreenshots(ctx, app)
	return types.Accept()
}

func (p AcceptancePolicy) inferProjectGroup(ctx context.Context, app *types.Application) {
	if app.ProjectGroup != "" {
		return
	}
	homepage := app.URLs["homepage"]
	if homepage == "" {
		return
	}
	if group, ok := p.ProjectGroups.Infer(homepage); ok {
		app.ProjectGroup = group
		log.Ctx(ctx).Info().Str("project_group", group).Msg("assigned project group")
	}
}

func missingFields(ctx context.Context, app types.Application) []types.RejectReason {
	logger := log.Ctx(ctx)
	var missing []types.RejectReason
	if _, ok := app.Names.Default(); !ok {
		logger.Info().Msg("ignored as no Name")
		missing = append(missing, types.RejectNoName)
	}
	if _, ok := app.Comments.Default(); !ok {
		logger.Info().Msg("ignored as no Comment")
		missing = append(missing, types.RejectNoComment)
	}
	if app.Icon.IsZero() {
		logger.Info().Msg("ignored as no Icon")
		missing = append(missing, types.RejectNoIcon)
	}
	return missing
}

// substituteScreenshots replaces the screenshot list with the curated
// override directory when one exists.
func (p AcceptancePolicy) substituteScreenshots(ctx context.Context, app *types.Application) {
	if p.Screenshots == nil {
		return
	}
	paths, ok, err := p.Screenshots.Overrides(app.ID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to read screenshot overrides")
		return
	}
	if !ok {
		return
	}
	log.Ctx(ctx).Info().Int("count", len(paths)).Msg("adding screenshot overrides")
	app.Screenshots = make([]types.ScreenshotSource, 0, len(paths))
	for _, path := range paths {
		app.Screenshots = append(app.Screenshots, types.ScreenshotSource{Path: path})
	}
}

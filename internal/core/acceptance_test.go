package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appstream-builder/internal/types"
)

func newTestPolicy(blacklist []string, store *testOverrideStore, shots testScreenshotOverrides) AcceptancePolicy {
	if store == nil {
		store = &testOverrideStore{}
	}
	merger := NewOverrideMerger(store, nil, []string{"CC0"})
	return NewAcceptancePolicy(blacklist, merger, shots)
}

func TestEvaluateAcceptsCompleteRecord(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	session := NewSession()
	app := completeApp("gedit")

	decision := policy.Evaluate(t.Context(), &app, session)
	require.True(t, decision.Accepted)
	require.True(t, session.HasValidContent())
	assert.Equal(t, []string{"gedit"}, session.AcceptedIDs())
}

func TestEvaluateBlacklist(t *testing.T) {
	policy := newTestPolicy([]string{"nautilus-*", "*-kde4"}, nil, testScreenshotOverrides{})
	session := NewSession()

	for _, id := range []string{"nautilus-home", "kmail-kde4"} {
		app := completeApp(id)
		decision := policy.Evaluate(t.Context(), &app, session)
		require.False(t, decision.Accepted)
		assert.Equal(t, types.RejectBlacklisted, decision.Reason)
	}
	require.False(t, session.HasValidContent())
	if diff := cmp.Diff([]types.Rejection{
		{ID: "nautilus-home", Reason: types.RejectBlacklisted},
		{ID: "kmail-kde4", Reason: types.RejectBlacklisted},
	}, session.Rejected()); diff != "" {
		t.Fatalf("unexpected rejections (-want +got):\n%s", diff)
	}
}

func TestEvaluateDuplicateKeepsFirst(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	session := NewSession()

	first := completeApp("gedit")
	second := completeApp("gedit")
	second.Names["C"] = "Second"

	require.True(t, policy.Evaluate(t.Context(), &first, session).Accepted)
	decision := policy.Evaluate(t.Context(), &second, session)
	require.False(t, decision.Accepted)
	assert.Equal(t, types.RejectDuplicate, decision.Reason)

	accepted := session.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, "Name gedit", accepted[0].Names["C"])
}

func TestEvaluateRejectedRecordDoesNotBlockLaterDuplicate(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	session := NewSession()

	incomplete := completeApp("gedit")
	incomplete.Icon = types.IconRef{}
	require.False(t, policy.Evaluate(t.Context(), &incomplete, session).Accepted)

	complete := completeApp("gedit")
	require.True(t, policy.Evaluate(t.Context(), &complete, session).Accepted)
}

func TestEvaluateMissingFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(app *types.Application)
		reason  types.RejectReason
		missing []types.RejectReason
	}{
		{
			name:    "no name",
			mutate:  func(app *types.Application) { delete(app.Names, "C") },
			reason:  types.RejectNoName,
			missing: []types.RejectReason{types.RejectNoName},
		},
		{
			name:    "no comment",
			mutate:  func(app *types.Application) { delete(app.Comments, "C") },
			reason:  types.RejectNoComment,
			missing: []types.RejectReason{types.RejectNoComment},
		},
		{
			name:    "no icon",
			mutate:  func(app *types.Application) { app.Icon = types.IconRef{} },
			reason:  types.RejectNoIcon,
			missing: []types.RejectReason{types.RejectNoIcon},
		},
		{
			name: "everything",
			mutate: func(app *types.Application) {
				app.Names = types.LocalizedText{"de": "Name"}
				app.Comments = types.LocalizedText{}
				app.Icon = types.IconRef{}
			},
			reason:  types.RejectNoName,
			missing: []types.RejectReason{types.RejectNoName, types.RejectNoComment, types.RejectNoIcon},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
			app := completeApp("gedit")
			tc.mutate(&app)

			decision := policy.Evaluate(t.Context(), &app, NewSession())
			require.False(t, decision.Accepted)
			assert.Equal(t, tc.reason, decision.Reason)
			assert.Equal(t, tc.missing, decision.Missing)
		})
	}
}

func TestEvaluateRequiredSidecar(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	app := completeApp("DejaVuSans")
	app.TypeID = types.TypeIDFont
	app.RequiresSidecar = true

	decision := policy.Evaluate(t.Context(), &app, NewSession())
	require.False(t, decision.Accepted)
	assert.Equal(t, types.RejectMissingRequiredSidecar, decision.Reason)
}

func TestEvaluateSidecarCanSupplyMissingName(t *testing.T) {
	store := &testOverrideStore{
		extraPath: "/extra/font.appdata.xml",
		docs: map[string]types.OverrideDocument{
			"/extra/font.appdata.xml": {ID: "font", Licence: "CC0", Names: types.LocalizedText{"C": "Font"}},
		},
	}
	policy := newTestPolicy(nil, store, testScreenshotOverrides{})
	app := completeApp("font")
	app.Names = types.LocalizedText{}

	require.True(t, policy.Evaluate(t.Context(), &app, NewSession()).Accepted)
	assert.Equal(t, "Font", app.Names["C"])
}

func TestEvaluateProjectGroupInference(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})

	app := completeApp("gedit")
	app.URLs["homepage"] = "https://wiki.gnome.org/Apps/Gedit"
	require.True(t, policy.Evaluate(t.Context(), &app, NewSession()).Accepted)
	assert.Equal(t, "GNOME", app.ProjectGroup)

	preset := completeApp("kate")
	preset.ProjectGroup = "Custom"
	preset.URLs["homepage"] = "https://kate-editor.kde.org/"
	require.True(t, policy.Evaluate(t.Context(), &preset, NewSession()).Accepted)
	assert.Equal(t, "Custom", preset.ProjectGroup)

	unknown := completeApp("vim")
	unknown.URLs["homepage"] = "https://www.vim.org/"
	require.True(t, policy.Evaluate(t.Context(), &unknown, NewSession()).Accepted)
	assert.Empty(t, unknown.ProjectGroup)
}

func TestEvaluateScreenshotOverridesReplaceList(t *testing.T) {
	shots := testScreenshotOverrides{paths: map[string][]string{
		"gedit": {"/shots/gedit/a.png", "/shots/gedit/b.png"},
	}}
	policy := newTestPolicy(nil, nil, shots)

	app := completeApp("gedit")
	app.Screenshots = []types.ScreenshotSource{{URL: "https://example.org/upstream.png"}}
	require.True(t, policy.Evaluate(t.Context(), &app, NewSession()).Accepted)

	want := []types.ScreenshotSource{{Path: "/shots/gedit/a.png"}, {Path: "/shots/gedit/b.png"}}
	if diff := cmp.Diff(want, app.Screenshots); diff != "" {
		t.Fatalf("unexpected screenshots (-want +got):\n%s", diff)
	}

	other := completeApp("kate")
	other.Screenshots = []types.ScreenshotSource{{URL: "https://example.org/kate.png"}}
	require.True(t, policy.Evaluate(t.Context(), &other, NewSession()).Accepted)
	assert.Len(t, other.Screenshots, 1)
}

func TestSessionStoresCopies(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	session := NewSession()
	app := completeApp("gedit")
	require.True(t, policy.Evaluate(t.Context(), &app, session).Accepted)

	app.Names["C"] = "Mutated"
	accepted := session.Accepted()
	accepted[0].Comments["C"] = "Mutated too"

	again := session.Accepted()
	assert.Equal(t, "Name gedit", again[0].Names["C"])
	assert.Equal(t, "Comment gedit", again[0].Comments["C"])
}

func TestEvaluateRequiresPresenceNotContent(t *testing.T) {
	policy := newTestPolicy(nil, nil, testScreenshotOverrides{})
	app := completeApp("gedit")
	app.Names["C"] = ""
	app.Comments["C"] = "  "

	decision := policy.Evaluate(t.Context(), &app, NewSession())
	assert.True(t, decision.Accepted)
	assert.Empty(t, decision.Missing)
}

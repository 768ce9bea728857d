package policies

// ProjectGroupRule assigns Group to any homepage matching one of Patterns.
type ProjectGroupRule struct {
	Group    string
	Patterns []string
}

// DefaultProjectGroupRules is evaluated in order; the first group with a
// matching pattern wins.
var DefaultProjectGroupRules = []ProjectGroupRule{
	{Group: "GNOME", Patterns: []string{"http*://*.gnome.org*", "http://gnome-*.sourceforge.net/"}},
	{Group: "KDE", Patterns: []string{"http*://*.kde.org*", "http://*kde-apps.org/*"}},
	{Group: "XFCE", Patterns: []string{"http://*xfce.org*"}},
	{Group: "LXDE", Patterns: []string{"http://lxde.org*", "http://lxde.sourceforge.net/*"}},
	{Group: "MATE", Patterns: []string{"http://*mate-desktop.org*"}},
}

type ProjectGroupPolicy struct {
	groups []projectGroup
}

type projectGroup struct {
	name     string
	patterns PatternList
}

func NewProjectGroupPolicy(rules []ProjectGroupRule) ProjectGroupPolicy {
	policy := ProjectGroupPolicy{}
	for _, rule := range rules {
		if rule.Group == "" {
			continue
		}
		policy.groups = append(policy.groups, projectGroup{
			name:     rule.Group,
			patterns: NewPatternList(rule.Patterns),
		})
	}
	return policy
}

// Infer returns the project group for a homepage URL.
func (p ProjectGroupPolicy) Infer(homepage string) (string, bool) {
	if homepage == "" {
		return "", false
	}
	for _, group := range p.groups {
		if _, ok := group.patterns.Match(homepage); ok {
			return group.name, true
		}
	}
	return "", false
}

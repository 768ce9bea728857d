package policies

import (
	"strings"

	"appstream-builder/internal/types"
)

// CompanionPolicy maps a package name onto the companion package globs
// that must be extracted alongside it.
type CompanionPolicy struct {
	rules []companionRule
}

type companionRule struct {
	packages  PatternList
	companion string
}

func NewCompanionPolicy(rules []types.CompanionRule) CompanionPolicy {
	policy := CompanionPolicy{}
	for _, rule := range rules {
		companion := strings.TrimSpace(rule.Companion)
		if companion == "" {
			continue
		}
		packages := NewPatternList([]string{rule.Package})
		if packages.Len() == 0 {
			continue
		}
		policy.rules = append(policy.rules, companionRule{packages: packages, companion: companion})
	}
	return policy
}

// Companions returns the companion globs for a package, in table order.
func (p CompanionPolicy) Companions(packageName string) []string {
	var companions []string
	for _, rule := range p.rules {
		if _, ok := rule.packages.Match(packageName); ok {
			companions = append(companions, rule.companion)
		}
	}
	return companions
}

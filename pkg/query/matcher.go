// Package query implements locator matching and tree traversal over element.Node trees.
package query

import (
	"sort"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// computedNameSources is the fallback chain for ComputedName, before role description.
var computedNameSources = []string{
	element.AXTitle,
	element.AXValue,
	element.AXDescription,
	element.AXHelp,
	element.AXPlaceholder,
}

// ComputedName derives a display name for n: the first non-empty of title, string
// value, description, help and placeholder, else "roleDescription (role)".
func ComputedName(n element.Node) (string, bool) {
	for _, attr := range computedNameSources {
		if s, ok := element.StringAttribute(n, attr); ok && s != "" {
			return s, true
		}
	}

	roleDesc, _ := element.StringAttribute(n, element.AXRoleDescription)
	if roleDesc == "" {
		return "", false
	}
	if role := element.Role(n); role != "" {
		return roleDesc + " (" + role + ")", true
	}
	return roleDesc, true
}

// MatchComputedName checks the computed_name_equals / computed_name_contains criteria.
// Vacuously true when neither is present.
func MatchComputedName(n element.Node, criteria map[string]string) bool {
	equals, hasEquals := criteria[locator.KeyComputedNameEquals]
	contains, hasContains := criteria[locator.KeyComputedNameContains]
	if !hasEquals && !hasContains {
		return true
	}

	name, ok := ComputedName(n)
	if !ok {
		return false
	}
	if hasEquals && name != equals {
		return false
	}
	if hasContains && !containsIgnoreCase(name, contains) {
		return false
	}
	return true
}

// MatchCriterion evaluates a single (key, expected) criterion against n.
func MatchCriterion(n element.Node, key, expected string) bool {
	switch locator.KindOf(key) {
	case locator.KindRole:
		return matchRole(n, expected)
	case locator.KindComputedName:
		return MatchComputedName(n, map[string]string{key: expected})
	case locator.KindBool:
		return matchBool(n, locator.CanonicalKey(key), expected)
	case locator.KindList:
		return matchList(n, locator.CanonicalKey(key), expected)
	default:
		return matchString(n, locator.CanonicalKey(key), expected)
	}
}

// matchRole passes for an empty or wildcard role, otherwise requires exact equality.
func matchRole(n element.Node, expected string) bool {
	if expected == "" || expected == locator.Wildcard {
		return true
	}
	role, ok := element.StringAttribute(n, element.AXRole)
	return ok && role == expected
}

// matchBool requires the attribute to be present; absence never matches.
func matchBool(n element.Node, attr, expected string) bool {
	actual, ok := actualBool(n, attr)
	if !ok {
		return false
	}
	return actual == locator.ParseBool(expected)
}

func actualBool(n element.Node, attr string) (bool, bool) {
	v, ok := n.Attribute(attr)
	if !ok {
		return false, false
	}
	switch v.Kind() {
	case element.KindBool:
		return v.AsBool()
	case element.KindString:
		s, _ := v.AsString()
		return locator.ParseBool(s), true
	case element.KindNumber:
		f, _ := v.AsNumber()
		return f != 0, true
	default:
		return false, false
	}
}

// matchList compares actual and expected as sets. An absent attribute matches
// only an empty expected list.
func matchList(n element.Node, attr, expected string) bool {
	want := locator.DecodeList(expected)
	actual, ok := actualList(n, attr)
	if !ok {
		return len(want) == 0
	}
	return locator.SameSet(actual, want)
}

func actualList(n element.Node, attr string) ([]string, bool) {
	v, ok := n.Attribute(attr)
	if !ok {
		return nil, false
	}
	switch v.Kind() {
	case element.KindStringList:
		return v.AsStrings()
	case element.KindNodeList:
		// Node lists compare by role, e.g. AXChildren as [AXButton, AXButton, AXStaticText].
		nodes, _ := v.AsNodes()
		roles := make([]string, 0, len(nodes))
		for _, child := range nodes {
			if child != nil {
				roles = append(roles, element.Role(child))
			}
		}
		return roles, true
	case element.KindString:
		s, _ := v.AsString()
		return locator.DecodeList(s), true
	default:
		return nil, false
	}
}

// matchString requires exact equality with a string-typed attribute. A missing
// or non-string attribute matches "", "nil" or n/a.
func matchString(n element.Node, attr, expected string) bool {
	actual, ok := element.StringAttribute(n, attr)
	if !ok {
		return locator.IsAbsentToken(expected)
	}
	return actual == expected
}

// Evaluate matches n against loc: role, computed name, remaining criteria (all must
// pass), then requiredAction if non-empty. Every role key ("role", "AXRole")
// must pass on its own.
func Evaluate(n element.Node, loc locator.Locator, requiredAction string) MatchStatus {
	keys := sortedCriteriaKeys(loc.Criteria)
	for _, key := range keys {
		if locator.KindOf(key) == locator.KindRole && !matchRole(n, loc.Criteria[key]) {
			return NoMatch
		}
	}
	if !MatchComputedName(n, loc.Criteria) {
		return NoMatch
	}

	for _, key := range keys {
		switch locator.KindOf(key) {
		case locator.KindRole, locator.KindComputedName:
			continue
		}
		if !MatchCriterion(n, key, loc.Criteria[key]) {
			return NoMatch
		}
	}

	if requiredAction != "" && !n.SupportsAction(requiredAction) {
		return PartialMatchActionMissing
	}
	return FullMatch
}

func sortedCriteriaKeys(criteria map[string]string) []string {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

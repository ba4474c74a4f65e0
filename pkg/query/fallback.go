package query

import (
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// Bounds used by SmartFallback.
const (
	FallbackMaxDepth    = 3
	FallbackMaxElements = 5
)

// FallbackStatus is the result kind of a smart fallback search.
type FallbackStatus int

const (
	FallbackSkipped   FallbackStatus = iota // Not enough signal in the locator
	FallbackNotFound                        // No candidate supports the action
	FallbackAmbiguous                       // More than one candidate supports the action
	FallbackResolved                        // Exactly one candidate
)

// String returns the string representation of FallbackStatus
func (s FallbackStatus) String() string {
	switch s {
	case FallbackSkipped:
		return "skipped"
	case FallbackNotFound:
		return "notFound"
	case FallbackAmbiguous:
		return "ambiguous"
	case FallbackResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// FallbackOutcome reports what a smart fallback search did.
type FallbackOutcome struct {
	Status     FallbackStatus
	Locator    locator.Locator // Rewritten locator, zero if skipped
	Candidates []element.Node  // Candidates supporting the action
}

// RewriteForFallback moves the title (or, failing that, identifier) criterion to
// computed_name_contains. ok is false when the locator has neither and no role,
// meaning there is not enough signal to retry.
func RewriteForFallback(loc locator.Locator) (locator.Locator, bool) {
	rewritten := loc.Clone()
	rewritten.RootPathHint = nil

	for _, attr := range []string{element.AXTitle, element.AXIdentifier} {
		key, value, ok := rewritten.Lookup(attr)
		if !ok {
			continue
		}
		delete(rewritten.Criteria, key)
		rewritten.Criteria[locator.KeyComputedNameContains] = value
		return rewritten, true
	}

	role := rewritten.Role()
	if role == "" || role == locator.Wildcard {
		return locator.Locator{}, false
	}
	return rewritten, true
}

// SmartFallback retries a failed action lookup with a looser locator: title or
// identifier become a computed-name substring match, the walk is shallow and capped,
// and only candidates supporting actionName count. The node is returned only when
// exactly one candidate remains.
func SmartFallback(root element.Node, loc locator.Locator, actionName string) (element.Node, FallbackOutcome) {
	rewritten, ok := RewriteForFallback(loc)
	if !ok || root == nil {
		return nil, FallbackOutcome{Status: FallbackSkipped}
	}
	rewritten.RequireAction = actionName

	var candidates []element.Node
	for _, n := range CollectAll(root, rewritten, FallbackMaxDepth, FallbackMaxElements) {
		if n.SupportsAction(actionName) {
			candidates = append(candidates, n)
		}
	}

	outcome := FallbackOutcome{Locator: rewritten, Candidates: candidates}
	switch len(candidates) {
	case 0:
		outcome.Status = FallbackNotFound
		return nil, outcome
	case 1:
		outcome.Status = FallbackResolved
		return candidates[0], outcome
	default:
		outcome.Status = FallbackAmbiguous
		return nil, outcome
	}
}

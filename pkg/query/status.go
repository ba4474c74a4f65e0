package query

// MatchStatus is the outcome of evaluating one node against a locator.
type MatchStatus int

const (
	NoMatch                   MatchStatus = iota // Role or a criterion failed
	PartialMatchActionMissing                    // Role and criteria matched, required action absent
	FullMatch                                    // Role, criteria and action all satisfied
)

// String returns the string representation of MatchStatus
func (s MatchStatus) String() string {
	switch s {
	case NoMatch:
		return "noMatch"
	case PartialMatchActionMissing:
		return "partialMatchActionMissing"
	case FullMatch:
		return "fullMatch"
	default:
		return "unknown"
	}
}

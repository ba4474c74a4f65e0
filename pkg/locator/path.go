package locator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var pathComponentRe = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)

// PathComponent is one "Role[Index]" step of a path hint.
// Index is 0-based; the token carries it 1-based.
type PathComponent struct {
	Role  string
	Index int
}

// String formats the component back into token form.
func (p PathComponent) String() string {
	return fmt.Sprintf("%s[%d]", p.Role, p.Index+1)
}

// ParsePathComponent parses a token such as "AXButton[2]".
// "AXButton[0]" parses to Index -1, which never resolves.
func ParsePathComponent(token string) (PathComponent, error) {
	m := pathComponentRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return PathComponent{}, fmt.Errorf("invalid path component %q: expected Role[Index]", token)
	}

	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return PathComponent{}, fmt.Errorf("invalid path component %q: %w", token, err)
	}

	return PathComponent{Role: m[1], Index: idx - 1}, nil
}

// PathError reports the first malformed component of a path.
type PathError struct {
	Index int
	Token string
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path component %d: %v", e.Index+1, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ParsePath parses every component, failing on the first malformed one with
// a *PathError.
func ParsePath(tokens []string) ([]PathComponent, error) {
	components := make([]PathComponent, 0, len(tokens))
	for i, token := range tokens {
		c, err := ParsePathComponent(token)
		if err != nil {
			return nil, &PathError{Index: i, Token: token, Err: err}
		}
		components = append(components, c)
	}
	return components, nil
}

// SplitPath splits a "AXWindow[1]/AXGroup[2]" string into components.
// Both "/" and "," separate components.
func SplitPath(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == ',' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

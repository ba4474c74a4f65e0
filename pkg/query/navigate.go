package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// Navigate walks "Role[Index]" components from root and returns the node reached,
// or nil if any component is malformed or cannot be resolved.
func Navigate(root element.Node, components []string) element.Node {
	n, _ := navigate(root, components)
	return n
}

// navigationError describes where a navigation stopped.
type navigationError struct {
	Index     int
	Component string
	Reason    string
}

func (e *navigationError) Error() string {
	return fmt.Sprintf("path component %d (%s): %s", e.Index+1, e.Component, e.Reason)
}

func navigate(root element.Node, components []string) (element.Node, *navigationError) {
	if root == nil {
		return nil, &navigationError{Index: 0, Reason: "no root element"}
	}

	parsed, err := locator.ParsePath(components)
	if err != nil {
		var pathErr *locator.PathError
		if errors.As(err, &pathErr) {
			return nil, &navigationError{Index: pathErr.Index, Component: pathErr.Token, Reason: "malformed component"}
		}
		return nil, &navigationError{Reason: err.Error()}
	}

	current := root
	for i, c := range parsed {
		token := components[i]

		var candidates []element.Node
		if strings.EqualFold(c.Role, element.RoleWindow) {
			candidates = element.Windows(current)
		} else {
			candidates = childrenWithRole(current, c.Role)
		}

		if c.Index < 0 || c.Index >= len(candidates) {
			return nil, &navigationError{
				Index:     i,
				Component: token,
				Reason:    fmt.Sprintf("index out of range (%d candidates)", len(candidates)),
			}
		}
		current = candidates[c.Index]
	}
	return current, nil
}

// childrenWithRole filters n's children by role, ignoring case.
func childrenWithRole(n element.Node, role string) []element.Node {
	var result []element.Node
	for _, child := range n.Children() {
		if child != nil && strings.EqualFold(element.Role(child), role) {
			result = append(result, child)
		}
	}
	return result
}

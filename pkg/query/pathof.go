package query

import (
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// PathOf builds the "Role[Index]" components leading from n's topmost ancestor
// to n, following AXParent links. Navigate(top, PathOf(n)) returns n.
// Returns nil when a parent does not list the node or the parent chain loops.
func PathOf(n element.Node) []string {
	var reversed []string
	visited := make(map[element.ID]bool)

	current := n
	for current != nil {
		if visited[current.ID()] {
			return nil
		}
		visited[current.ID()] = true

		parent := parentOf(current)
		if parent == nil {
			break
		}
		c, ok := componentWithin(parent, current)
		if !ok {
			return nil
		}
		reversed = append(reversed, c.String())
		current = parent
	}

	path := make([]string, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

func parentOf(n element.Node) element.Node {
	v, ok := n.Attribute(element.AXParent)
	if !ok {
		return nil
	}
	p, _ := v.AsNode()
	return p
}

// componentWithin locates child among parent's candidates the way Navigate
// would resolve it back.
func componentWithin(parent, child element.Node) (locator.PathComponent, bool) {
	role := element.Role(child)
	if role == "" {
		return locator.PathComponent{}, false
	}

	var candidates []element.Node
	if strings.EqualFold(role, element.RoleWindow) {
		candidates = element.Windows(parent)
	} else {
		candidates = childrenWithRole(parent, role)
	}
	for i, c := range candidates {
		if c != nil && c.ID() == child.ID() {
			return locator.PathComponent{Role: role, Index: i}, true
		}
	}
	return locator.PathComponent{}, false
}

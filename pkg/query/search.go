package query

import (
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// Search returns the first node, in pre-order and left-to-right child order, that
// fully matches loc with requiredAction. Nodes deeper than maxDepth (root is depth 0)
// are not evaluated. Returns nil if nothing matches.
//
// A node already on the current root-to-node chain is not entered again, so
// back-edges in the graph cannot make the walk loop.
func Search(root element.Node, loc locator.Locator, requiredAction string, maxDepth int) element.Node {
	if root == nil {
		return nil
	}
	s := &searcher{
		loc:       loc,
		action:    requiredAction,
		maxDepth:  maxDepth,
		ancestors: make(map[element.ID]bool),
	}
	return s.search(root, 0)
}

type searcher struct {
	loc       locator.Locator
	action    string
	maxDepth  int
	ancestors map[element.ID]bool
}

func (s *searcher) search(n element.Node, depth int) element.Node {
	if depth > s.maxDepth {
		return nil
	}
	id := n.ID()
	if s.ancestors[id] {
		return nil
	}

	if Evaluate(n, s.loc, s.action) == FullMatch {
		return n
	}

	// Partial matches keep descending: a matching descendant may support the action.
	s.ancestors[id] = true
	defer delete(s.ancestors, id)

	for _, child := range n.Children() {
		if child == nil {
			continue
		}
		if found := s.search(child, depth+1); found != nil {
			return found
		}
	}
	return nil
}

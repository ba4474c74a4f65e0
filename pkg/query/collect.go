package query

import (
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
)

// CollectAll walks the tree depth-first and returns every node that fully matches
// loc (using loc.RequireAction), in visitation order, without duplicates, capped at
// maxElements. Nodes deeper than maxDepth are not evaluated.
func CollectAll(root element.Node, loc locator.Locator, maxDepth, maxElements int) []element.Node {
	if root == nil {
		return nil
	}
	c := &collector{
		loc:         loc,
		maxDepth:    maxDepth,
		maxElements: maxElements,
		inFlight:    make(map[element.ID]bool),
		collected:   make(map[element.ID]bool),
	}
	c.collect(root, 0, nil)
	return c.results
}

// collector holds the state of one CollectAll call. It is never shared.
type collector struct {
	loc         locator.Locator
	maxDepth    int
	maxElements int

	// inFlight holds nodes whose subtree is being walked.
	inFlight  map[element.ID]bool
	collected map[element.ID]bool
	results   []element.Node
}

func (c *collector) full() bool {
	return len(c.results) >= c.maxElements
}

func (c *collector) collect(n element.Node, depth int, path []element.ID) {
	id := n.ID()
	if c.inFlight[id] || containsID(path, id) {
		return
	}
	if c.full() || depth > c.maxDepth {
		return
	}

	c.inFlight[id] = true
	defer delete(c.inFlight, id)

	if Evaluate(n, c.loc, c.loc.RequireAction) == FullMatch && !c.collected[id] && !c.full() {
		c.collected[id] = true
		c.results = append(c.results, n)
	}

	childPath := append(path[:len(path):len(path)], id)
	for _, child := range n.Children() {
		if c.full() {
			break
		}
		if child == nil {
			continue
		}
		c.collect(child, depth+1, childPath)
	}
}

func containsID(path []element.ID, id element.ID) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

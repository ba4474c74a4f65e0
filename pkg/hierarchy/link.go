package hierarchy

import (
	"fmt"
)

// Link prepares a tree built with New/AppendChild for querying: elements without
// an ID get e1, e2, ... in pre-order, IDs are checked for uniqueness and
// child/window refs are resolved to back-edges. Resolved refs follow the regular
// children (or windows) of their element.
//
// Link must run once, before refs turn the tree into a graph.
func Link(root *Element) error {
	if root == nil {
		return fmt.Errorf("no root element")
	}

	var order []*Element
	var walk func(e *Element)
	walk = func(e *Element) {
		order = append(order, e)
		for _, c := range e.children {
			walk(c)
		}
		for _, w := range e.windows {
			walk(w)
		}
	}
	walk(root)

	byID := make(map[string]*Element, len(order))
	for _, e := range order {
		if e.id == "" {
			continue
		}
		if _, dup := byID[e.id]; dup {
			return fmt.Errorf("duplicate element id %q", e.id)
		}
		byID[e.id] = e
	}

	next := 1
	for _, e := range order {
		if e.id != "" {
			continue
		}
		for {
			candidate := fmt.Sprintf("e%d", next)
			next++
			if _, taken := byID[candidate]; !taken {
				e.id = candidate
				byID[candidate] = e
				break
			}
		}
	}

	for _, e := range order {
		for _, ref := range e.childRefs {
			target, ok := byID[ref]
			if !ok {
				return fmt.Errorf("element %q refers to unknown id %q", e.id, ref)
			}
			e.children = append(e.children, target)
		}
		for _, ref := range e.windowRefs {
			target, ok := byID[ref]
			if !ok {
				return fmt.Errorf("element %q refers to unknown window id %q", e.id, ref)
			}
			e.windows = append(e.windows, target)
		}
		e.childRefs, e.windowRefs = nil, nil
	}
	return nil
}

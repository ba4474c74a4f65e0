package element

// MergeChildren builds the unified child list for n: AXChildren first, then each
// of AlternateChildAttributes, then AXWindows for application nodes.
// Nodes already seen (by ID) are skipped; the first occurrence keeps its position.
func MergeChildren(n Attributed) []Node {
	var result []Node
	seen := make(map[ID]bool)

	add := func(name string) {
		v, ok := n.Attribute(name)
		if !ok {
			return
		}
		switch v.Kind() {
		case KindNodeList:
			nodes, _ := v.AsNodes()
			for _, child := range nodes {
				if child == nil || seen[child.ID()] {
					continue
				}
				seen[child.ID()] = true
				result = append(result, child)
			}
		case KindNode:
			child, _ := v.AsNode()
			if child != nil && !seen[child.ID()] {
				seen[child.ID()] = true
				result = append(result, child)
			}
		}
	}

	add(AXChildren)
	for _, name := range AlternateChildAttributes {
		add(name)
	}
	if Role(n) == RoleApplication {
		add(AXWindows)
	}

	return result
}

// Windows returns the node's AXWindows list.
func Windows(n Attributed) []Node {
	v, ok := n.Attribute(AXWindows)
	if !ok {
		return nil
	}
	nodes, _ := v.AsNodes()
	return nodes
}

package hierarchy

import (
	"fmt"
	"io"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/query"
)

// Dump writes root as an indented tree, one node per line:
//
//	AXWindow "Main" (w1)
//	  AXButton "OK" #ok [AXPress] (e3)
//	  -> AXWindow (w1)
//
// A node already on the current branch is printed as a "->" reference and not
// expanded. Nodes deeper than maxDepth are omitted; maxDepth < 0 means no limit.
func Dump(w io.Writer, root element.Node, maxDepth int) error {
	if root == nil {
		return nil
	}
	d := &dumper{w: w, maxDepth: maxDepth, onBranch: make(map[element.ID]bool)}
	return d.dump(root, 0)
}

type dumper struct {
	w        io.Writer
	maxDepth int
	onBranch map[element.ID]bool
}

func (d *dumper) dump(n element.Node, depth int) error {
	if d.maxDepth >= 0 && depth > d.maxDepth {
		return nil
	}
	indent := strings.Repeat("  ", depth)

	if d.onBranch[n.ID()] {
		_, err := fmt.Fprintf(d.w, "%s-> %s (%s)\n", indent, roleOrUnknown(n), n.ID())
		return err
	}
	if _, err := fmt.Fprintf(d.w, "%s%s\n", indent, describeNode(n)); err != nil {
		return err
	}

	d.onBranch[n.ID()] = true
	defer delete(d.onBranch, n.ID())

	for _, child := range n.Children() {
		if child == nil {
			continue
		}
		if err := d.dump(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describeNode(n element.Node) string {
	var b strings.Builder
	b.WriteString(roleOrUnknown(n))
	if name, ok := query.ComputedName(n); ok {
		fmt.Fprintf(&b, " %q", name)
	}
	if id, ok := element.StringAttribute(n, element.AXIdentifier); ok && id != "" {
		b.WriteString(" #" + id)
	}
	if v, ok := n.Attribute(element.AXActionNames); ok {
		if actions, ok := v.AsStrings(); ok && len(actions) > 0 {
			b.WriteString(" [" + strings.Join(actions, ", ") + "]")
		}
	}
	fmt.Fprintf(&b, " (%s)", n.ID())
	return b.String()
}

func roleOrUnknown(n element.Node) string {
	if role := element.Role(n); role != "" {
		return role
	}
	return "?"
}

package query

import (
	"github.com/devicelab-dev/axlocator/pkg/element"
)

// fakeNode is an in-memory element.Node for tests. children and windows may be
// assigned after construction to build cycles.
type fakeNode struct {
	id       element.ID
	attrs    map[string]element.Value
	children []element.Node
	windows  []element.Node
	actions  []string
}

func newNode(id, role string, attrs ...string) *fakeNode {
	n := &fakeNode{id: element.ID(id), attrs: map[string]element.Value{}}
	if role != "" {
		n.attrs[element.AXRole] = element.StringValue(role)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.attrs[attrs[i]] = element.StringValue(attrs[i+1])
	}
	return n
}

func (f *fakeNode) with(children ...*fakeNode) *fakeNode {
	for _, c := range children {
		f.children = append(f.children, c)
	}
	return f
}

func (f *fakeNode) withWindows(windows ...*fakeNode) *fakeNode {
	for _, w := range windows {
		f.windows = append(f.windows, w)
	}
	return f
}

func (f *fakeNode) withActions(actions ...string) *fakeNode {
	f.actions = actions
	return f
}

func (f *fakeNode) set(name string, v element.Value) *fakeNode {
	f.attrs[name] = v
	return f
}

func (f *fakeNode) ID() element.ID { return f.id }

func (f *fakeNode) Children() []element.Node { return element.MergeChildren(f) }

func (f *fakeNode) SupportsAction(name string) bool {
	for _, a := range f.actions {
		if a == name {
			return true
		}
	}
	return false
}

func (f *fakeNode) Attribute(name string) (element.Value, bool) {
	switch name {
	case element.AXChildren:
		if f.children == nil {
			return element.Value{}, false
		}
		return element.NodesValue(f.children), true
	case element.AXWindows:
		if f.windows == nil {
			return element.Value{}, false
		}
		return element.NodesValue(f.windows), true
	case element.AXActionNames:
		if f.actions == nil {
			return element.Value{}, false
		}
		return element.StringsValue(f.actions), true
	}
	v, ok := f.attrs[name]
	return v, ok
}

func nodeIDs(nodes []element.Node) []element.ID {
	out := make([]element.ID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

// sampleApp builds App -> Window "Main" -> Button "OK" (AXPress), with the window
// exposed both as a child and in the windows list.
func sampleApp() (app, window, button *fakeNode) {
	button = newNode("button", "AXButton", element.AXTitle, "OK").withActions(element.ActionPress)
	window = newNode("window", "AXWindow", element.AXTitle, "Main").with(button)
	app = newNode("app", "AXApplication").withWindows(window)
	return app, window, button
}

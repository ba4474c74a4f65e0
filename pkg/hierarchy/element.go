// Package hierarchy provides a snapshot implementation of element.Node loaded
// from XML, YAML or JSON dumps of an accessibility tree.
package hierarchy

import (
	"fmt"
	"sync"

	"github.com/devicelab-dev/axlocator/pkg/element"
)

// Element is one node of a loaded snapshot. Empty strings and nil pointers read
// as absent attributes.
type Element struct {
	Role            string
	Subrole         string
	RoleDescription string
	Title           string
	Description     string
	Help            string
	Placeholder     string
	Identifier      string

	Enabled *bool
	Focused *bool
	Hidden  *bool
	Busy    *bool
	Ignored *bool
	Main    *bool

	Actions       []string
	AllowedValues []string
	Extra         map[string]string // Any other attribute, by name

	id       string
	value    element.Value
	hasValue bool

	children []*Element
	windows  []*Element
	parent   *Element

	// Back-edges by ID, resolved into children/windows when the snapshot is linked.
	childRefs  []string
	windowRefs []string

	mu        sync.Mutex
	performed []string
}

// New creates an element. An empty id is assigned when the snapshot is linked.
func New(id, role string) *Element {
	return &Element{id: id, Role: role}
}

// ID returns the element's identity.
func (e *Element) ID() element.ID {
	return element.ID(e.id)
}

// SetValue sets AXValue.
func (e *Element) SetValue(v element.Value) {
	e.value = v
	e.hasValue = v.Kind() != element.KindInvalid
}

// AppendChild adds c as the last child of e.
func (e *Element) AppendChild(c *Element) {
	c.parent = e
	e.children = append(e.children, c)
}

// AppendWindow adds w to e's windows list.
func (e *Element) AppendWindow(w *Element) {
	w.parent = e
	e.windows = append(e.windows, w)
}

// AddChildRef records a back-edge to the element with the given ID.
func (e *Element) AddChildRef(id string) {
	e.childRefs = append(e.childRefs, id)
}

// AddWindowRef exposes the element with the given ID in e's windows list.
func (e *Element) AddWindowRef(id string) {
	e.windowRefs = append(e.windowRefs, id)
}

// Parent returns the element e was attached under, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Attribute implements element.Attributed.
func (e *Element) Attribute(name string) (element.Value, bool) {
	switch name {
	case element.AXRole:
		return stringAttr(e.Role)
	case element.AXSubrole:
		return stringAttr(e.Subrole)
	case element.AXRoleDescription:
		return stringAttr(e.RoleDescription)
	case element.AXTitle:
		return stringAttr(e.Title)
	case element.AXValue:
		return e.value, e.hasValue
	case element.AXDescription:
		return stringAttr(e.Description)
	case element.AXHelp:
		return stringAttr(e.Help)
	case element.AXPlaceholder:
		return stringAttr(e.Placeholder)
	case element.AXIdentifier:
		return stringAttr(e.Identifier)
	case element.AXEnabled:
		return boolAttr(e.Enabled)
	case element.AXFocused:
		return boolAttr(e.Focused)
	case element.AXHidden:
		return boolAttr(e.Hidden)
	case element.AXElementBusy:
		return boolAttr(e.Busy)
	case element.AXIgnored:
		return boolAttr(e.Ignored)
	case element.AXMain:
		return boolAttr(e.Main)
	case element.AXActionNames:
		if e.Actions == nil {
			return element.Value{}, false
		}
		return element.StringsValue(e.Actions), true
	case element.AXAllowedValues:
		if e.AllowedValues == nil {
			return element.Value{}, false
		}
		return element.StringsValue(e.AllowedValues), true
	case element.AXChildren:
		return nodesAttr(e.children)
	case element.AXWindows:
		return nodesAttr(e.windows)
	case element.AXParent:
		if e.parent == nil {
			return element.Value{}, false
		}
		return element.NodeValue(e.parent), true
	}

	if v, ok := e.Extra[name]; ok {
		return element.StringValue(v), true
	}
	return element.Value{}, false
}

// Children implements element.Node.
func (e *Element) Children() []element.Node {
	return element.MergeChildren(e)
}

// SupportsAction implements element.Node.
func (e *Element) SupportsAction(name string) bool {
	for _, a := range e.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// PerformAction records the action. Snapshots have no live UI to drive.
func (e *Element) PerformAction(name string) error {
	if !e.SupportsAction(name) {
		return fmt.Errorf("element %s does not support %s", e.id, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.performed = append(e.performed, name)
	return nil
}

// Performed returns the actions performed on e, in order.
func (e *Element) Performed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.performed...)
}

func stringAttr(s string) (element.Value, bool) {
	if s == "" {
		return element.Value{}, false
	}
	return element.StringValue(s), true
}

func boolAttr(b *bool) (element.Value, bool) {
	if b == nil {
		return element.Value{}, false
	}
	return element.BoolValue(*b), true
}

func nodesAttr(elems []*Element) (element.Value, bool) {
	if len(elems) == 0 {
		return element.Value{}, false
	}
	nodes := make([]element.Node, len(elems))
	for i, el := range elems {
		nodes[i] = el
	}
	return element.NodesValue(nodes), true
}

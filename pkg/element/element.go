// Package element defines the node capability the locator engine queries.
// Implementations bind it to an accessibility framework or to a parsed snapshot.
package element

// ID is the stable identity of a node for the lifetime of a traversal.
// Two nodes with the same ID are the same node, however they were reached.
type ID string

// Attributed reads typed attributes by name.
type Attributed interface {
	Attribute(name string) (Value, bool)
}

// Node is one element of an accessibility tree.
// All methods must be called from the designated main context (see executor.MainQueue).
type Node interface {
	Attributed

	// ID returns the node identity used for equality, cycle detection and de-duplication.
	ID() ID

	// Children returns the unified child list (primary, alternate and window
	// attributes), de-duplicated by ID. Returns nil if the node has none.
	Children() []Node

	// SupportsAction reports whether the node advertises the named action.
	SupportsAction(name string) bool
}

// Actor is implemented by nodes that can perform actions.
type Actor interface {
	PerformAction(name string) error
}

// Attribute names
const (
	AXRole            = "AXRole"
	AXSubrole         = "AXSubrole"
	AXRoleDescription = "AXRoleDescription"
	AXTitle           = "AXTitle"
	AXValue           = "AXValue"
	AXDescription     = "AXDescription"
	AXHelp            = "AXHelp"
	AXPlaceholder     = "AXPlaceholderValue"
	AXIdentifier      = "AXIdentifier"
	AXEnabled         = "AXEnabled"
	AXFocused         = "AXFocused"
	AXHidden          = "AXHidden"
	AXElementBusy     = "AXElementBusy"
	AXIgnored         = "AXIgnored"
	AXMain            = "AXMain"
	AXActionNames     = "AXActionNames"
	AXAllowedValues   = "AXAllowedValues"
	AXChildren        = "AXChildren"
	AXWindows         = "AXWindows"
	AXParent          = "AXParent"

	// Alternate child-bearing attributes
	AXVisibleChildren           = "AXVisibleChildren"
	AXChildrenInNavigationOrder = "AXChildrenInNavigationOrder"
	AXContents                  = "AXContents"
	AXRows                      = "AXRows"
	AXColumns                   = "AXColumns"
	AXTabs                      = "AXTabs"
	AXSections                  = "AXSections"
)

// Roles with special handling
const (
	RoleApplication = "AXApplication"
	RoleWindow      = "AXWindow"
)

// Common actions
const (
	ActionPress    = "AXPress"
	ActionCancel   = "AXCancel"
	ActionConfirm  = "AXConfirm"
	ActionRaise    = "AXRaise"
	ActionShowMenu = "AXShowMenu"
)

// AlternateChildAttributes lists the attributes merged into Children after AXChildren, in order.
var AlternateChildAttributes = []string{
	AXVisibleChildren,
	AXChildrenInNavigationOrder,
	AXContents,
	AXRows,
	AXColumns,
	AXTabs,
	AXSections,
}

// StringAttribute returns the named attribute when it is a string.
func StringAttribute(n Attributed, name string) (string, bool) {
	v, ok := n.Attribute(name)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// BoolAttribute returns the named attribute when it is a bool.
func BoolAttribute(n Attributed, name string) (bool, bool) {
	v, ok := n.Attribute(name)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Role returns the node's role, or "" if it has none.
func Role(n Attributed) string {
	role, _ := StringAttribute(n, AXRole)
	return role
}

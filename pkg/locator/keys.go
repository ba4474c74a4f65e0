package locator

import "github.com/devicelab-dev/axlocator/pkg/element"

// Reserved criteria keys
const (
	KeyRole                 = "role"
	KeyComputedNameEquals   = "computed_name_equals"
	KeyComputedNameContains = "computed_name_contains"
)

// Wildcard matches any role.
const Wildcard = "*"

// NotAvailable is the placeholder written for attributes that could not be read.
// A string criterion with this value matches an absent attribute.
const NotAvailable = "n/a"

// KeyKind selects how a criterion is compared against a node.
type KeyKind int

const (
	KindString KeyKind = iota
	KindBool
	KindList
	KindRole
	KindComputedName
)

// String returns the string representation of KeyKind
func (k KeyKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindRole:
		return "role"
	case KindComputedName:
		return "computedName"
	default:
		return "unknown"
	}
}

// aliases maps short criteria names to attribute names.
var aliases = map[string]string{
	KeyRole:           element.AXRole,
	"subrole":         element.AXSubrole,
	"roleDescription": element.AXRoleDescription,
	"title":           element.AXTitle,
	"value":           element.AXValue,
	"description":     element.AXDescription,
	"help":            element.AXHelp,
	"placeholder":     element.AXPlaceholder,
	"identifier":      element.AXIdentifier,
	"enabled":         element.AXEnabled,
	"focused":         element.AXFocused,
	"hidden":          element.AXHidden,
	"busy":            element.AXElementBusy,
	"ignored":         element.AXIgnored,
	"main":            element.AXMain,
	"actionNames":     element.AXActionNames,
	"allowedValues":   element.AXAllowedValues,
	"children":        element.AXChildren,
}

var boolKeys = map[string]bool{
	element.AXEnabled:     true,
	element.AXFocused:     true,
	element.AXHidden:      true,
	element.AXElementBusy: true,
	element.AXIgnored:     true,
	element.AXMain:        true,
}

var listKeys = map[string]bool{
	element.AXActionNames:   true,
	element.AXAllowedValues: true,
	element.AXChildren:      true,
}

// CanonicalKey returns the attribute name for a criteria key.
// Unknown keys are returned unchanged; keys are case-sensitive.
func CanonicalKey(key string) string {
	if attr, ok := aliases[key]; ok {
		return attr
	}
	return key
}

// KindOf classifies a criteria key.
func KindOf(key string) KeyKind {
	switch key {
	case KeyComputedNameEquals, KeyComputedNameContains:
		return KindComputedName
	}

	canonical := CanonicalKey(key)
	switch {
	case canonical == element.AXRole:
		return KindRole
	case boolKeys[canonical]:
		return KindBool
	case listKeys[canonical]:
		return KindList
	default:
		return KindString
	}
}

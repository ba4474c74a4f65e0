package element

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindNumber
	KindNode
	KindNodeList
	KindStringList
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindNode:
		return "node"
	case KindNodeList:
		return "nodeList"
	case KindStringList:
		return "stringList"
	default:
		return "invalid"
	}
}

// Value is a typed attribute value.
type Value struct {
	kind    Kind
	str     string
	boolean bool
	number  float64
	node    Node
	nodes   []Node
	strs    []string
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

// NumberValue wraps a number.
func NumberValue(f float64) Value { return Value{kind: KindNumber, number: f} }

// NodeValue wraps a single node.
func NodeValue(n Node) Value { return Value{kind: KindNode, node: n} }

// NodesValue wraps a node list.
func NodesValue(nodes []Node) Value { return Value{kind: KindNodeList, nodes: nodes} }

// StringsValue wraps a string list.
func StringsValue(s []string) Value { return Value{kind: KindStringList, strs: s} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string if the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the bool if the value is a bool.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// AsNumber returns the number if the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.number, v.kind == KindNumber }

// AsNode returns the node if the value is a node.
func (v Value) AsNode() (Node, bool) { return v.node, v.kind == KindNode }

// AsNodes returns the node list if the value is a node list.
func (v Value) AsNodes() ([]Node, bool) { return v.nodes, v.kind == KindNodeList }

// AsStrings returns the string list if the value is a string list.
func (v Value) AsStrings() ([]string, bool) { return v.strs, v.kind == KindStringList }

// String formats the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindNode:
		if v.node == nil {
			return "<nil>"
		}
		return fmt.Sprintf("<%s %s>", Role(v.node), v.node.ID())
	case KindNodeList:
		return fmt.Sprintf("[%d nodes]", len(v.nodes))
	case KindStringList:
		return "[" + strings.Join(v.strs, ", ") + "]"
	default:
		return ""
	}
}

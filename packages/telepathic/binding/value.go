package binding

import (
	"telepathic-go/packages/telepathic/dom"
)

// Kind is the variant of a Value
type Kind int

const (
	// KindUndeclared marks a property nothing has assigned yet. It renders as "".
	KindUndeclared Kind = iota
	KindText
	KindNode
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNode:
		return "node"
	case KindObject:
		return "object"
	default:
		return "undeclared"
	}
}

// Value is the tagged union held by a bound property
type Value struct {
	kind   Kind
	text   string
	node   *dom.Node
	object *Object
}

// Undeclared returns the sentinel for an unset property
func Undeclared() Value {
	return Value{}
}

// Text wraps a string
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Node wraps a live DOM node; a nil node is Undeclared
func Node(n *dom.Node) Value {
	if n == nil {
		return Undeclared()
	}
	return Value{kind: KindNode, node: n}
}

// ObjectValue wraps a nested object; a nil object is Undeclared
func ObjectValue(o *Object) Value {
	if o == nil {
		return Undeclared()
	}
	return Value{kind: KindObject, object: o}
}

// Kind returns the variant
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndeclared reports whether v is the unset sentinel
func (v Value) IsUndeclared() bool {
	return v.kind == KindUndeclared
}

// Node returns the wrapped node, nil for other variants
func (v Value) Node() *dom.Node {
	return v.node
}

// Object returns the wrapped object, nil for other variants
func (v Value) Object() *Object {
	return v.object
}

// String renders the value for attributes and text content
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNode:
		return v.node.OuterHTML()
	default:
		return ""
	}
}

// Equal is strict equality: same variant and same payload, references by identity
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNode:
		return v.node == other.node
	case KindObject:
		return v.object == other.object
	default:
		return true
	}
}

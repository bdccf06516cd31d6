package dom

// Visitor visits the nodes of a tree
type Visitor interface {
	VisitElement(n *Node, context interface{}) interface{}
	VisitText(n *Node, context interface{}) interface{}
	VisitComment(n *Node, context interface{}) interface{}
	VisitFragment(n *Node, context interface{}) interface{}
}

// Visit dispatches n to the matching Visitor method
func Visit(visitor Visitor, n *Node, context interface{}) interface{} {
	switch n.Type {
	case ElementNode:
		return visitor.VisitElement(n, context)
	case TextNode:
		return visitor.VisitText(n, context)
	case CommentNode:
		return visitor.VisitComment(n, context)
	default:
		return visitor.VisitFragment(n, context)
	}
}

// VisitAll visits all nodes and returns the non-nil results
func VisitAll(visitor Visitor, nodes []*Node, context interface{}) []interface{} {
	result := []interface{}{}
	for _, n := range nodes {
		if r := Visit(visitor, n, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}

// Walk calls fn for root and its descendants in depth-first document order.
// Returning false from fn skips the children of that node. Shadow roots are
// not entered.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}

// TextNodes returns the text nodes under root in document order
func TextNodes(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n.Type == TextNode {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Elements returns the element descendants of root in document order,
// excluding root itself
func Elements(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n != root && n.Type == ElementNode {
			out = append(out, n)
		}
		return true
	})
	return out
}

package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var fragmentContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// ParseFragment parses an HTML fragment into a document fragment, the way a
// template element's content is built
func ParseFragment(source string) (*Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(source), fragmentContext)
	if err != nil {
		return nil, err
	}
	fragment := NewFragment()
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			fragment.AppendChild(n)
		}
	}
	return fragment, nil
}

func fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = &Node{Type: ElementNode, Tag: strings.ToLower(hn.Data)}
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attribute{Name: strings.ToLower(name), Value: a.Val})
		}
	case html.TextNode:
		return NewText(hn.Data)
	case html.CommentNode:
		return NewComment(hn.Data)
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if cn := fromHTML(c); cn != nil {
			cn.parent = n
			n.children = append(n.children, cn)
		}
	}
	return n
}

// htmlBuilder converts nodes to x/net/html nodes for rendering
type htmlBuilder struct{}

func (b htmlBuilder) VisitElement(n *Node, context interface{}) interface{} {
	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.attrs {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	for _, c := range VisitAll(b, n.children, context) {
		hn.AppendChild(c.(*html.Node))
	}
	return hn
}

func (b htmlBuilder) VisitText(n *Node, context interface{}) interface{} {
	return &html.Node{Type: html.TextNode, Data: n.Data}
}

func (b htmlBuilder) VisitComment(n *Node, context interface{}) interface{} {
	return &html.Node{Type: html.CommentNode, Data: n.Data}
}

// fragments nested in a tree render as their children
func (b htmlBuilder) VisitFragment(n *Node, context interface{}) interface{} {
	return nil
}

func render(nodes []*Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		if n.Type == DocumentFragmentNode {
			buf.WriteString(render(n.children))
			continue
		}
		hn := Visit(htmlBuilder{}, n, nil).(*html.Node)
		if err := html.Render(&buf, hn); err != nil {
			// rendering into a buffer only fails for malformed trees
			continue
		}
	}
	return buf.String()
}

// OuterHTML serializes n including its own tag
func (n *Node) OuterHTML() string {
	return render([]*Node{n})
}

// InnerHTML serializes the children of n
func (n *Node) InnerHTML() string {
	return render(n.children)
}

// SetInnerHTML parses markup and replaces the children of n with the result
func (n *Node) SetInnerHTML(markup string) error {
	fragment, err := ParseFragment(markup)
	if err != nil {
		return err
	}
	n.RemoveChildren()
	n.AppendChild(fragment)
	return nil
}

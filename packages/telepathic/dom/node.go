package dom

import (
	"errors"
	"strings"
)

// NodeType identifies the kind of a Node
type NodeType int

const (
	DocumentFragmentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentFragmentNode:
		return "#document-fragment"
	case ElementNode:
		return "#element"
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	default:
		return "#unknown"
	}
}

var (
	// ErrNotChild is returned when a reference node is not a child of the receiver.
	ErrNotChild = errors.New("node is not a child of this node")
	// ErrHierarchy is returned when an insertion would make a node its own ancestor.
	ErrHierarchy = errors.New("node cannot be inserted into its own subtree")
	// ErrShadowUnsupported is returned by AttachShadow for elements that cannot host a shadow root.
	ErrShadowUnsupported = errors.New("element does not support attaching a shadow root")
	// ErrShadowExists is returned by AttachShadow when the element already has a shadow root.
	ErrShadowExists = errors.New("element already hosts a shadow root")
)

// Attribute represents an attribute of an element
type Attribute struct {
	Name  string
	Value string
}

// Node represents a node of the document tree. Element names and attribute
// names are lower-cased.
type Node struct {
	Type NodeType
	Tag  string
	Data string

	attrs    []Attribute
	parent   *Node
	children []*Node

	// value is the form-field value property once it diverges from the attribute
	value *string

	shadowRoot *Node
	host       *Node

	listeners map[string][]Listener
	observers []func(Mutation)
}

// NewElement creates a detached element
func NewElement(tag string, attrs ...Attribute) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
	for _, a := range attrs {
		n.attrs = append(n.attrs, Attribute{Name: strings.ToLower(a.Name), Value: a.Value})
	}
	return n
}

// NewText creates a detached text node
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment creates a detached comment node
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// NewFragment creates an empty document fragment
func NewFragment(children ...*Node) *Node {
	f := &Node{Type: DocumentFragmentNode}
	for _, c := range children {
		f.AppendChild(c)
	}
	return f
}

// IsElement reports whether n is an element
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Parent returns the parent node, nil for detached nodes and shadow roots
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a snapshot of the child list
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child or nil
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child or nil
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) isInclusiveAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// expand turns a fragment into its children, detaching them from it
func expand(child *Node) []*Node {
	if child.Type != DocumentFragmentNode {
		return []*Node{child}
	}
	nodes := child.Children()
	for _, c := range nodes {
		c.parent = nil
	}
	child.children = nil
	return nodes
}

func (n *Node) insertBefore(child, ref *Node) error {
	if child.isInclusiveAncestorOf(n) {
		return ErrHierarchy
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	index := len(n.children)
	if ref != nil {
		if index = n.indexOf(ref); index == -1 {
			return ErrNotChild
		}
	}
	nodes := expand(child)
	for _, c := range nodes {
		c.parent = n
	}
	tail := append([]*Node{}, n.children[index:]...)
	n.children = append(append(n.children[:index], nodes...), tail...)
	n.notify(Mutation{Kind: ChildListMutation, Target: n})
	return nil
}

func (n *Node) detach(child *Node) {
	i := n.indexOf(child)
	if i == -1 {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	n.notify(Mutation{Kind: ChildListMutation, Target: n})
}

func (n *Node) nextSibling(child *Node) *Node {
	i := n.indexOf(child)
	if i == -1 || i+1 >= len(n.children) {
		return nil
	}
	return n.children[i+1]
}

// AppendChild appends child (or the children of a fragment) and returns n.
// Appending an ancestor of n is ignored.
func (n *Node) AppendChild(child *Node) *Node {
	if child == nil {
		return n
	}
	_ = n.insertBefore(child, nil)
	return n
}

// InsertBefore inserts child before ref; a nil ref appends
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref != nil && n.indexOf(ref) == -1 {
		return ErrNotChild
	}
	if child == ref {
		return nil
	}
	return n.insertBefore(child, ref)
}

// RemoveChild detaches child from n
func (n *Node) RemoveChild(child *Node) error {
	if n.indexOf(child) == -1 {
		return ErrNotChild
	}
	n.detach(child)
	return nil
}

// ReplaceChild replaces old with replacement, which may be a fragment
func (n *Node) ReplaceChild(replacement, old *Node) error {
	if n.indexOf(old) == -1 {
		return ErrNotChild
	}
	if replacement == old {
		return nil
	}
	if replacement.isInclusiveAncestorOf(n) {
		return ErrHierarchy
	}
	ref := n.nextSibling(old)
	if ref == replacement {
		ref = n.nextSibling(replacement)
	}
	n.detach(old)
	return n.insertBefore(replacement, ref)
}

// RemoveChildren detaches every child
func (n *Node) RemoveChildren() {
	if len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.notify(Mutation{Kind: ChildListMutation, Target: n})
}

// CloneNode copies n, including its subtree when deep is set. Listeners,
// observers and shadow roots are not copied.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{Type: n.Type, Tag: n.Tag, Data: n.Data}
	if len(n.attrs) > 0 {
		clone.attrs = append([]Attribute{}, n.attrs...)
	}
	if n.value != nil {
		v := *n.value
		clone.value = &v
	}
	if deep {
		for _, c := range n.children {
			cc := c.CloneNode(true)
			cc.parent = clone
			clone.children = append(clone.children, cc)
		}
	}
	return clone
}

// HasAttributes reports whether the element carries any attribute
func (n *Node) HasAttributes() bool {
	return len(n.attrs) > 0
}

// Attributes returns a snapshot of the attributes in document order
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the value of the named attribute
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets the named attribute, appending it when absent
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			n.notify(Mutation{Kind: AttributeMutation, Target: n, Name: name, OldValue: a.Value})
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	n.notify(Mutation{Kind: AttributeMutation, Target: n, Name: name})
}

// RemoveAttribute removes the named attribute if present
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.notify(Mutation{Kind: AttributeMutation, Target: n, Name: name, OldValue: a.Value})
			return
		}
	}
}

// Value returns the form value property, which mirrors the value attribute
// until it is written
func (n *Node) Value() string {
	if n.value != nil {
		return *n.value
	}
	if n.Tag == "textarea" {
		return n.TextContent()
	}
	v, _ := n.GetAttribute("value")
	return v
}

// SetValue writes the form value property without touching the attribute
func (n *Node) SetValue(v string) {
	old := n.Value()
	n.value = &v
	n.notify(Mutation{Kind: PropertyMutation, Target: n, Name: "value", OldValue: old})
}

// ClassName returns the class attribute
func (n *Node) ClassName() string {
	v, _ := n.GetAttribute("class")
	return v
}

// ClassList returns a view over the class tokens of n
func (n *Node) ClassList() *ClassList {
	return &ClassList{node: n}
}

// TextContent returns the concatenated text of the subtree
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	Walk(n, func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces the children of n with a single text node
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		old := n.Data
		n.Data = text
		n.notify(Mutation{Kind: CharacterDataMutation, Target: n, OldValue: old})
		return
	}
	n.RemoveChildren()
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// Prop reads a DOM property by name
func (n *Node) Prop(name string) string {
	switch name {
	case "value":
		return n.Value()
	case "class", "className":
		return n.ClassName()
	case "innerHTML":
		return n.InnerHTML()
	case "textContent", "innerText":
		return n.TextContent()
	default:
		v, _ := n.GetAttribute(name)
		return v
	}
}

// SetProp writes a DOM property by name; unknown names reflect to attributes
func (n *Node) SetProp(name, value string) error {
	switch name {
	case "value":
		n.SetValue(value)
	case "class", "className":
		n.SetAttribute("class", value)
	case "innerHTML":
		return n.SetInnerHTML(value)
	case "textContent", "innerText":
		n.SetTextContent(value)
	default:
		n.SetAttribute(name, value)
	}
	return nil
}

// AttachShadow creates the shadow root of an element
func (n *Node) AttachShadow() (*Node, error) {
	if !n.IsElement() || !CanAttachShadow(n.Tag) {
		return nil, ErrShadowUnsupported
	}
	if n.shadowRoot != nil {
		return nil, ErrShadowExists
	}
	n.shadowRoot = &Node{Type: DocumentFragmentNode, host: n}
	return n.shadowRoot, nil
}

// ShadowRoot returns the attached shadow root or nil
func (n *Node) ShadowRoot() *Node {
	return n.shadowRoot
}

// Host returns the host element of a shadow root
func (n *Node) Host() *Node {
	return n.host
}

var shadowHosts = map[string]bool{
	"article":    true,
	"aside":      true,
	"blockquote": true,
	"body":       true,
	"div":        true,
	"footer":     true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"header":     true,
	"main":       true,
	"nav":        true,
	"p":          true,
	"section":    true,
	"span":       true,
}

var reservedCustomNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// IsCustomElementName reports whether tag is a valid custom element name
func IsCustomElementName(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	if !strings.Contains(tag, "-") || reservedCustomNames[tag] {
		return false
	}
	return strings.ToLower(tag) == tag
}

// CanAttachShadow reports whether an element named tag may host a shadow root
func CanAttachShadow(tag string) bool {
	tag = strings.ToLower(tag)
	return shadowHosts[tag] || IsCustomElementName(tag)
}

// ClassList is a live view over the class attribute of an element
type ClassList struct {
	node *Node
}

// Tokens returns the class tokens in order
func (c *ClassList) Tokens() []string {
	return strings.Fields(c.node.ClassName())
}

// Contains reports whether token is present
func (c *ClassList) Contains(token string) bool {
	for _, t := range c.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends the tokens that are not yet present
func (c *ClassList) Add(tokens ...string) {
	current := c.Tokens()
	changed := false
	for _, token := range tokens {
		if token == "" || containsToken(current, token) {
			continue
		}
		current = append(current, token)
		changed = true
	}
	if changed {
		c.node.SetAttribute("class", strings.Join(current, " "))
	}
}

// Remove drops every occurrence of the tokens
func (c *ClassList) Remove(tokens ...string) {
	current := c.Tokens()
	kept := current[:0]
	for _, t := range current {
		if !containsToken(tokens, t) {
			kept = append(kept, t)
		}
	}
	if len(kept) != len(c.Tokens()) {
		c.node.SetAttribute("class", strings.Join(kept, " "))
	}
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

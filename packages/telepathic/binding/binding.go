package binding

import (
	"fmt"
	"strings"

	"telepathic-go/packages/telepathic/dom"
	"telepathic-go/packages/telepathic/schema"
	"telepathic-go/packages/telepathic/util"
)

// Attachment is one DOM point a Binding keeps in sync
type Attachment struct {
	Node      *dom.Node
	Attribute string
	// Event is the change event pulled back into the property, empty for one-way
	Event string

	kind     schema.AttributeKind
	security schema.SecurityContext
}

type settings struct {
	key      string
	elements schema.ElementSchemaRegistry
	console  util.Console
}

func newSettings(opts []Option) settings {
	s := settings{
		elements: schema.Default(),
		console:  util.DiscardConsole,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Binding or a Registry
type Option func(*settings)

// WithKey sets the registry key; it defaults to the property name
func WithKey(key string) Option {
	return func(s *settings) {
		s.key = key
	}
}

// WithElementSchema sets the schema deciding how attributes are written
func WithElementSchema(registry schema.ElementSchemaRegistry) Option {
	return func(s *settings) {
		if registry != nil {
			s.elements = registry
		}
	}
}

// WithConsole sets where suppressed push failures are reported
func WithConsole(console util.Console) Option {
	return func(s *settings) {
		if console != nil {
			s.console = console
		}
	}
}

// Binding links one property of an owner object to any number of DOM
// attachments. Writes go through the property, so owner.Set and Binding.Set
// are the same operation.
type Binding struct {
	owner       *Object
	property    *Property
	attachments []*Attachment
	unsubscribe func()
	watchers    []ChangeListener

	settings
}

// New creates a Binding for property on owner, defining the property as
// Undeclared when it does not exist yet
func New(owner *Object, property string, opts ...Option) (*Binding, error) {
	b := &Binding{settings: newSettings(opts)}
	if b.key == "" {
		b.key = property
	}
	if err := b.observe(owner, property); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Binding) observe(owner *Object, property string) error {
	p, err := owner.Define(property, Undeclared())
	if err != nil {
		return err
	}
	if p.ReadOnly() {
		return fmt.Errorf("%w: cannot bind %q", ErrReadOnly, property)
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	b.owner = owner
	b.property = p
	b.unsubscribe = p.OnChange(b.changed)
	return nil
}

func (b *Binding) changed(old, v Value) {
	b.push(old, v)
	for _, fn := range append([]ChangeListener{}, b.watchers...) {
		if fn != nil {
			fn(old, v)
		}
	}
}

// Key returns the registry key
func (b *Binding) Key() string {
	return b.key
}

// Owner returns the object holding the bound property
func (b *Binding) Owner() *Object {
	return b.owner
}

// Name returns the bound property name
func (b *Binding) Name() string {
	return b.property.Name()
}

// Get returns the current value
func (b *Binding) Get() Value {
	return b.property.Get()
}

// Set writes the property and pushes v to every attachment that differs
func (b *Binding) Set(v Value) error {
	return b.property.Set(v)
}

// OnChange registers fn to run after every write has been pushed. The
// registration follows the binding when it moves to a replacement owner.
func (b *Binding) OnChange(fn ChangeListener) func() {
	b.watchers = append(b.watchers, fn)
	index := len(b.watchers) - 1
	return func() {
		if index < len(b.watchers) {
			b.watchers[index] = nil
		}
	}
}

// Attachments returns a snapshot of the attachments in attach order
func (b *Binding) Attachments() []Attachment {
	out := make([]Attachment, len(b.attachments))
	for i, a := range b.attachments {
		out[i] = *a
	}
	return out
}

// Attach adds (node, attribute) and pushes the current value to it. With an
// event name, firing that event on node pulls node's attribute back into the
// property. A (node, attribute) pair already attached is left as is.
func (b *Binding) Attach(node *dom.Node, attribute string, event ...string) *Binding {
	if b.attached(node, attribute) {
		return b
	}
	a := &Attachment{
		Node:      node,
		Attribute: attribute,
		kind:      b.elements.AttributeKind(node.Tag, attribute),
		security:  b.elements.SecurityContext(node.Tag, attribute),
	}
	if len(event) > 0 && event[0] != "" {
		a.Event = event[0]
		node.AddEventListener(a.Event, func(*dom.Event) {
			b.pull(a)
		})
	}
	b.attachments = append(b.attachments, a)
	b.safeApply(a, Undeclared(), b.Get())
	return b
}

func (b *Binding) attached(node *dom.Node, attribute string) bool {
	for _, a := range b.attachments {
		if a.Node == node && a.Attribute == attribute {
			return true
		}
	}
	return false
}

// rebase moves the binding onto a replacement owner and pushes its value
func (b *Binding) rebase(owner *Object) error {
	if owner == b.owner {
		return nil
	}
	old := b.Get()
	if err := b.observe(owner, b.Name()); err != nil {
		return err
	}
	b.push(old, b.Get())
	return nil
}

func (b *Binding) pull(a *Attachment) {
	v := Text(a.Node.Prop(a.Attribute))
	if err := b.Set(v); err != nil {
		b.console.Error(fmt.Sprintf("binding %q: %v", b.key, err))
	}
}

func (b *Binding) push(old, v Value) {
	for _, a := range append([]*Attachment{}, b.attachments...) {
		b.safeApply(a, old, v)
	}
}

// safeApply keeps a failing attachment from stopping the others
func (b *Binding) safeApply(a *Attachment, old, v Value) {
	defer func() {
		if r := recover(); r != nil {
			b.console.Error(fmt.Sprintf("binding %q: updating <%s> %s panicked: %v", b.key, a.Node.Tag, a.Attribute, r))
		}
	}()
	if err := b.apply(a, old, v); err != nil {
		b.console.Error(fmt.Sprintf("binding %q: updating <%s> %s: %v", b.key, a.Node.Tag, a.Attribute, err))
	}
}

func (b *Binding) apply(a *Attachment, old, v Value) error {
	node := a.Node
	switch a.kind {
	case schema.KindClass:
		if node.ClassName() == v.String() {
			return nil
		}
		if prev := strings.Fields(old.String()); len(prev) > 0 {
			node.ClassList().Remove(prev...)
		}
		node.ClassList().Add(strings.Fields(v.String())...)
	case schema.KindContent:
		return applyContent(node, v)
	case schema.KindValue:
		if node.Value() == v.String() {
			return nil
		}
		node.SetValue(v.String())
	default:
		s := schema.Sanitize(a.security, v.String())
		if current, ok := node.GetAttribute(a.Attribute); ok && current == s {
			return nil
		}
		node.SetAttribute(a.Attribute, s)
	}
	return nil
}

func applyContent(node *dom.Node, v Value) error {
	first := node.FirstChild()
	if v.Kind() == KindNode {
		if first == v.Node() {
			return nil
		}
		if first == nil {
			return node.InsertBefore(v.Node(), nil)
		}
		return node.ReplaceChild(v.Node(), first)
	}
	s := v.String()
	children := node.Children()
	if len(children) == 0 && s == "" {
		return nil
	}
	if len(children) == 1 && first.Type == dom.TextNode && first.Data == s {
		return nil
	}
	node.SetTextContent(s)
	return nil
}

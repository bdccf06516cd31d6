package compiler

import (
	"fmt"
	"strings"

	"telepathic-go/packages/telepathic/binding"
	"telepathic-go/packages/telepathic/config"
	"telepathic-go/packages/telepathic/dom"
	"telepathic-go/packages/telepathic/marker"
	"telepathic-go/packages/telepathic/resolver"
	"telepathic-go/packages/telepathic/schema"
	"telepathic-go/packages/telepathic/util"
)

// Compiler turns the markers of a mounted template into bindings
type Compiler struct {
	selfToken     string
	bindAttribute string
	changeEvent   string
	properties    *schema.PropertySchema
	elements      schema.ElementSchemaRegistry
	console       util.Console
}

// Option configures a Compiler
type Option func(*Compiler)

// WithConfig copies the marker and event settings of cfg
func WithConfig(cfg *config.Config) Option {
	return func(c *Compiler) {
		if cfg == nil {
			return
		}
		c.selfToken = cfg.SelfToken
		c.bindAttribute = cfg.BindAttribute
		c.changeEvent = cfg.ChangeEvent
	}
}

// WithSelfToken sets the prefix stripped from marker paths
func WithSelfToken(token string) Option {
	return func(c *Compiler) {
		c.selfToken = token
	}
}

// WithBindAttribute sets the placeholder attribute name
func WithBindAttribute(name string) Option {
	return func(c *Compiler) {
		c.bindAttribute = name
	}
}

// WithChangeEvent sets the event attribute bindings listen to
func WithChangeEvent(event string) Option {
	return func(c *Compiler) {
		c.changeEvent = event
	}
}

// WithPropertySchema restricts vivification and supplies defaults
func WithPropertySchema(s *schema.PropertySchema) Option {
	return func(c *Compiler) {
		c.properties = s
	}
}

// WithElementSchema sets the HTML schema
func WithElementSchema(registry schema.ElementSchemaRegistry) Option {
	return func(c *Compiler) {
		if registry != nil {
			c.elements = registry
		}
	}
}

// WithConsole sets where warnings are logged
func WithConsole(console util.Console) Option {
	return func(c *Compiler) {
		if console != nil {
			c.console = console
		}
	}
}

// New creates a Compiler with optional parameters
func New(opts ...Option) *Compiler {
	c := &Compiler{
		selfToken:     config.DefaultSelfToken,
		bindAttribute: config.DefaultBindAttribute,
		changeEvent:   config.DefaultChangeEvent,
		elements:      schema.Default(),
		console:       util.DiscardConsole,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes one compile run
type Result struct {
	// Markers are the distinct markers in discovery order
	Markers []marker.Marker
	// Paths maps every marker to its property path
	Paths map[marker.Marker]marker.Path
	// Skipped lists markers whose path could not be resolved
	Skipped  []marker.Marker
	Warnings []error
}

// Bound returns the markers that were bound
func (r *Result) Bound() []marker.Marker {
	var out []marker.Marker
	for _, m := range r.Markers {
		if !r.skipped(m) {
			out = append(out, m)
		}
	}
	return out
}

func (r *Result) skipped(m marker.Marker) bool {
	for _, s := range r.Skipped {
		if s == m {
			return true
		}
	}
	return false
}

// Compile binds the markers of template to owner's properties inside root.
// An empty template means the markup currently under root. The text pass
// resolves every marker and replaces its text occurrences with placeholders;
// the attribute pass attaches placeholders and marker-valued attributes.
// Compiling the same root again only binds what is new.
//
// A *BindingIntegrityError means a marker resolved in the text pass had no
// binding under its key in the attribute pass. The text pass registers every
// key it binds and a Registry never drops one, so the error only guards
// against a corrupted registry.
func (c *Compiler) Compile(template string, root *dom.Node, owner *binding.Object, registry *binding.Registry) (*Result, error) {
	if template == "" {
		template = root.InnerHTML()
	}
	result := &Result{
		Markers: marker.Discover(template),
		Paths:   make(map[marker.Marker]marker.Path),
	}
	res := resolver.New(registry,
		resolver.WithPropertySchema(c.properties),
		resolver.WithConsole(c.console),
	)

	var bound []marker.Marker
	for _, m := range result.Markers {
		path := m.PathWithSelf(c.selfToken)
		result.Paths[m] = path
		resolution := res.Resolve(owner, path)
		result.Warnings = append(result.Warnings, resolution.Warnings...)
		if !resolution.Complete {
			result.Skipped = append(result.Skipped, m)
			continue
		}
		bound = append(bound, m)
		if err := c.compileText(root, m, resolution.Binding.Get()); err != nil {
			return result, err
		}
	}
	c.validate(result)

	for _, m := range bound {
		for _, node := range dom.Elements(root) {
			if err := c.compileNodeAttributes(node, m, result.Paths[m], registry); err != nil {
				return result, err
			}
		}
	}
	c.console.Log(fmt.Sprintf("compiled %d markers, %d skipped", len(bound), len(result.Skipped)))
	return result, nil
}

func (c *Compiler) validate(result *Result) {
	if c.properties == nil {
		return
	}
	var paths []string
	for _, m := range result.Markers {
		paths = append(paths, string(result.Paths[m]))
	}
	for _, missing := range c.properties.Validate(util.Uniq(paths)) {
		w := &UnknownPathWarning{Path: marker.Path(missing)}
		result.Warnings = append(result.Warnings, w)
		c.console.Warn(w.Error())
	}
}

// compileText replaces every text occurrence of m with a placeholder element
func (c *Compiler) compileText(root *dom.Node, m marker.Marker, value binding.Value) error {
	tag := string(m)
	for _, text := range dom.TextNodes(root) {
		parent := text.Parent()
		if parent == nil || !strings.Contains(text.Data, tag) {
			continue
		}
		if parent.IsElement() && c.elements.IsRawText(parent.Tag) {
			continue
		}
		fragment := dom.NewFragment()
		for _, piece := range util.SplitAround(text.Data, tag) {
			if piece != tag {
				fragment.AppendChild(dom.NewText(piece))
				continue
			}
			placeholder := dom.NewElement("span", dom.Attribute{Name: c.bindAttribute, Value: tag})
			if value.Kind() == binding.KindNode {
				placeholder.AppendChild(value.Node())
			}
			fragment.AppendChild(placeholder)
		}
		if err := parent.ReplaceChild(fragment, text); err != nil {
			return fmt.Errorf("replacing text of %s: %w", m, err)
		}
	}
	return nil
}

// compileNodeAttributes attaches every attribute of node whose value is m,
// last attribute first
func (c *Compiler) compileNodeAttributes(node *dom.Node, m marker.Marker, key marker.Path, registry *binding.Registry) error {
	if !node.HasAttributes() {
		return nil
	}
	attrs := node.Attributes()
	for i := len(attrs) - 1; i >= 0; i-- {
		attr := attrs[i]
		if attr.Value != string(m) {
			continue
		}
		b, ok := registry.Lookup(string(key))
		if !ok {
			return &BindingIntegrityError{Marker: m, Key: key}
		}
		if attr.Name == c.bindAttribute {
			node.RemoveAttribute(attr.Name)
			b.Attach(node, "innerHTML")
			continue
		}
		c.declare(node, attr.Name, string(m), b.Get())
		b.Attach(node, attr.Name, c.changeEvent)
	}
	return nil
}

// declare gives a two-way attribute its starting value. An attribute still
// holding the marker of an undeclared property is cleared, the value property
// included, so the marker is neither shown nor rediscovered by a recompile.
func (c *Compiler) declare(node *dom.Node, name, tag string, v binding.Value) {
	if v.IsUndeclared() {
		if current, _ := node.GetAttribute(name); current != tag {
			return
		}
		if c.elements.AttributeKind(node.Tag, name) == schema.KindValue {
			node.SetValue("")
		}
		node.SetAttribute(name, "")
		return
	}
	node.SetAttribute(name, schema.Sanitize(c.elements.SecurityContext(node.Tag, name), v.String()))
}

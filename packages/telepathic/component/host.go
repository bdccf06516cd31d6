// Package component mounts a template into a host element and binds it to
// the element's owner object.
package component

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"telepathic-go/packages/telepathic/binding"
	"telepathic-go/packages/telepathic/compiler"
	"telepathic-go/packages/telepathic/config"
	"telepathic-go/packages/telepathic/dom"
	"telepathic-go/packages/telepathic/loader"
	"telepathic-go/packages/telepathic/schema"
	"telepathic-go/packages/telepathic/util"
)

// ErrNoLoader is returned by Connect when the host has no loader
var ErrNoLoader = errors.New("no template loader configured")

// Activator upgrades the subcomponents found in a freshly mounted root
type Activator interface {
	ActivateSubcomponents(ctx context.Context, root *dom.Node) error
}

// ActivatorFunc adapts a function to Activator
type ActivatorFunc func(ctx context.Context, root *dom.Node) error

// ActivateSubcomponents implements Activator
func (f ActivatorFunc) ActivateSubcomponents(ctx context.Context, root *dom.Node) error {
	return f(ctx, root)
}

// IsolatedRootFunc creates the encapsulated mount root of an element
type IsolatedRootFunc func(element *dom.Node) (*dom.Node, error)

// PostInitFunc runs once the template is compiled
type PostInitFunc func(h *Host) error

// Host owns the mount root, registry and compile result of one element
type Host struct {
	element  *dom.Node
	owner    *binding.Object
	registry *binding.Registry
	compiler *compiler.Compiler

	loader       loader.Loader
	renderer     loader.Renderer
	activator    Activator
	isolatedRoot IsolatedRootFunc
	postInit     PostInitFunc
	console      util.Console

	root     *dom.Node
	isolated bool
	result   *compiler.Result

	ready     chan struct{}
	readyOnce sync.Once
}

type options struct {
	cfg          *config.Config
	loader       loader.Loader
	cache        *loader.TemplateCache
	renderer     loader.Renderer
	activator    Activator
	isolatedRoot IsolatedRootFunc
	postInit     PostInitFunc
	properties   *schema.PropertySchema
	elements     schema.ElementSchemaRegistry
	console      util.Console
}

// Option configures a Host
type Option func(*options)

// WithConfig sets the marker, event and cache settings. Unless WithCache is
// given, a loader gets a cache of its own sized by cfg; a CacheMaxSize of 0
// turns that off.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLoader sets where templates are fetched from
func WithLoader(l loader.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithCache serves template loads through cache, which may be shared
// between hosts
func WithCache(cache *loader.TemplateCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithRenderer sets the Markdown renderer
func WithRenderer(r loader.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithActivator sets the subcomponent activation step
func WithActivator(a Activator) Option {
	return func(o *options) {
		o.activator = a
	}
}

// WithIsolatedRoot replaces shadow root creation
func WithIsolatedRoot(fn IsolatedRootFunc) Option {
	return func(o *options) {
		o.isolatedRoot = fn
	}
}

// WithPostInit sets the hook run after compilation
func WithPostInit(fn PostInitFunc) Option {
	return func(o *options) {
		o.postInit = fn
	}
}

// WithPropertySchema governs vivification and leaf defaults
func WithPropertySchema(s *schema.PropertySchema) Option {
	return func(o *options) {
		o.properties = s
	}
}

// WithElementSchema sets the HTML schema
func WithElementSchema(registry schema.ElementSchemaRegistry) Option {
	return func(o *options) {
		o.elements = registry
	}
}

// WithConsole sets where the host and its bindings log
func WithConsole(console util.Console) Option {
	return func(o *options) {
		o.console = console
	}
}

func attachShadow(element *dom.Node) (*dom.Node, error) {
	return element.AttachShadow()
}

// New creates a host for element. A nil owner gets a fresh object.
func New(element *dom.Node, owner *binding.Object, opts ...Option) *Host {
	o := &options{
		cfg:          config.NewConfig(),
		isolatedRoot: attachShadow,
		elements:     schema.Default(),
		console:      util.DiscardConsole,
	}
	for _, opt := range opts {
		opt(o)
	}
	if owner == nil {
		owner = binding.NewObject()
	}
	if o.renderer == nil {
		o.renderer = loader.NewMarkdownRenderer()
	}
	if o.loader != nil && o.cache == nil && o.cfg != nil && o.cfg.CacheMaxSize > 0 {
		o.cache = loader.NewTemplateCache(loader.CacheConfigFrom(o.cfg))
	}
	if o.loader != nil && o.cache != nil {
		o.loader = loader.NewCachedLoader(o.loader, o.cache)
	}

	return &Host{
		element: element,
		owner:   owner,
		registry: binding.NewRegistry(
			binding.WithElementSchema(o.elements),
			binding.WithConsole(o.console),
		),
		compiler: compiler.New(
			compiler.WithConfig(o.cfg),
			compiler.WithPropertySchema(o.properties),
			compiler.WithElementSchema(o.elements),
			compiler.WithConsole(o.console),
		),
		loader:       o.loader,
		renderer:     o.renderer,
		activator:    o.activator,
		isolatedRoot: o.isolatedRoot,
		postInit:     o.postInit,
		console:      o.console,
		ready:        make(chan struct{}),
	}
}

// Connect mounts the template called name. Without an extension name.md is
// tried first and rendered from Markdown, falling back to name.html.
func (h *Host) Connect(ctx context.Context, name string) error {
	if err := h.acquireRoot(); err != nil {
		return err
	}
	markup, err := h.load(ctx, name)
	if err != nil {
		return err
	}
	return h.Mount(ctx, markup)
}

func (h *Host) load(ctx context.Context, name string) (string, error) {
	if h.loader == nil {
		return "", ErrNoLoader
	}
	switch path.Ext(name) {
	case "":
		markup, err := h.loadMarkdown(ctx, name+".md")
		var loadErr *loader.LoadError
		if err == nil || !errors.As(err, &loadErr) {
			return markup, err
		}
		h.console.Log(fmt.Sprintf("%v, falling back to %s.html", err, name))
		return h.loader.LoadText(ctx, name+".html")
	case ".md":
		return h.loadMarkdown(ctx, name)
	default:
		return h.loader.LoadText(ctx, name)
	}
}

func (h *Host) loadMarkdown(ctx context.Context, name string) (string, error) {
	text, err := h.loader.LoadText(ctx, name)
	if err != nil {
		return "", err
	}
	return h.renderer.Render(text)
}

// acquireRoot creates the isolated root once, falling back to the element
// itself where isolation is unsupported
func (h *Host) acquireRoot() error {
	if h.root != nil {
		return nil
	}
	root, err := h.isolatedRoot(h.element)
	switch {
	case err == nil:
		h.root, h.isolated = root, true
	case errors.Is(err, dom.ErrShadowExists) && h.element.ShadowRoot() != nil:
		h.root, h.isolated = h.element.ShadowRoot(), true
	case errors.Is(err, dom.ErrShadowUnsupported):
		h.console.Warn(fmt.Sprintf("<%s> cannot host an isolated root, mounting into the element", h.element.Tag))
		h.root, h.isolated = h.element, false
	default:
		return fmt.Errorf("creating mount root: %w", err)
	}
	return nil
}

// Mount appends markup to the mount root, activates subcomponents, compiles
// and runs the post-init hook before signalling ready
func (h *Host) Mount(ctx context.Context, markup string) error {
	if err := h.acquireRoot(); err != nil {
		return err
	}
	fragment, err := dom.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	h.root.AppendChild(fragment)

	if h.activator != nil {
		if err := h.activator.ActivateSubcomponents(ctx, h.root); err != nil {
			return fmt.Errorf("activating subcomponents: %w", err)
		}
	}
	result, err := h.compiler.Compile(markup, h.root, h.owner, h.registry)
	h.result = result
	if err != nil {
		return err
	}
	if h.postInit != nil {
		if err := h.postInit(h); err != nil {
			return fmt.Errorf("post-init: %w", err)
		}
	}
	h.readyOnce.Do(func() { close(h.ready) })
	return nil
}

// Recompile binds markers added to the mount root since the last compile
func (h *Host) Recompile() (*compiler.Result, error) {
	if h.root == nil {
		return nil, errors.New("host is not mounted")
	}
	result, err := h.compiler.Compile("", h.root, h.owner, h.registry)
	if result != nil {
		h.result = result
	}
	return result, err
}

// Element returns the host element
func (h *Host) Element() *dom.Node {
	return h.element
}

// Root returns the mount root, nil before the first mount
func (h *Host) Root() *dom.Node {
	return h.root
}

// Owner returns the object the template binds to
func (h *Host) Owner() *binding.Object {
	return h.owner
}

// Registry returns the bindings of this host
func (h *Host) Registry() *binding.Registry {
	return h.registry
}

// Result returns the latest compile result
func (h *Host) Result() *compiler.Result {
	return h.result
}

// Ready is closed once the first mount has completed
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Isolated reports whether the mount root is a shadow root
func (h *Host) Isolated() bool {
	return h.isolated
}

// Package resolver walks marker paths on an owner object, creating the
// intermediate objects and the per-prefix bindings a nested marker needs.
package resolver

import (
	"errors"
	"fmt"

	"telepathic-go/packages/telepathic/binding"
	"telepathic-go/packages/telepathic/marker"
	"telepathic-go/packages/telepathic/schema"
	"telepathic-go/packages/telepathic/util"
)

// ErrNotDeclared is the cause of a VivificationWarning when the property
// schema does not declare the segment as an object.
var ErrNotDeclared = errors.New("not declared as an object")

// VivificationWarning reports an intermediate segment that could not be
// created. The marker is skipped; compilation continues.
type VivificationWarning struct {
	Path    marker.Path
	Segment string
	Cause   error
}

func (w *VivificationWarning) Error() string {
	return fmt.Sprintf("cannot bind %q: segment %q could not be created: %v", w.Path, w.Segment, w.Cause)
}

func (w *VivificationWarning) Unwrap() error {
	return w.Cause
}

// UndeclaredPropertyWarning reports a leaf property without a value. The
// Undeclared sentinel is substituted.
type UndeclaredPropertyWarning struct {
	Path marker.Path
}

func (w *UndeclaredPropertyWarning) Error() string {
	return fmt.Sprintf("property %q is not declared on the component, using an empty placeholder", w.Path)
}

// Resolution is the outcome of resolving one path
type Resolution struct {
	// Owner holds Segment; for an incomplete walk it is the deepest reachable owner
	Owner   *binding.Object
	Segment string
	Key     marker.Path
	// Complete is false when a segment could not be created
	Complete bool
	// Binding is the leaf binding of a complete resolution
	Binding  *binding.Binding
	Warnings []error
}

// Resolver resolves paths against one registry
type Resolver struct {
	registry   *binding.Registry
	properties *schema.PropertySchema
	console    util.Console
}

// Option configures a Resolver
type Option func(*Resolver)

// WithPropertySchema restricts vivification to declared object paths and
// supplies leaf defaults
func WithPropertySchema(s *schema.PropertySchema) Option {
	return func(r *Resolver) {
		r.properties = s
	}
}

// WithConsole sets where warnings are logged
func WithConsole(console util.Console) Option {
	return func(r *Resolver) {
		if console != nil {
			r.console = console
		}
	}
}

// New creates a Resolver registering bindings in registry
func New(registry *binding.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		console:  util.DiscardConsole,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) warn(res *Resolution, w error) {
	res.Warnings = append(res.Warnings, w)
	r.console.Warn(w.Error())
}

// Resolve walks path from owner. Every prefix gets its own binding; missing
// intermediate segments become empty objects; a missing leaf becomes the
// schema default or Undeclared. Failures are logged and leave the
// resolution incomplete, never abort.
func (r *Resolver) Resolve(owner *binding.Object, path marker.Path) Resolution {
	res := Resolution{Owner: owner, Segment: string(path), Key: path}
	if !path.Valid() {
		r.warn(&res, &VivificationWarning{Path: path, Segment: string(path), Cause: errors.New("empty path segment")})
		return res
	}

	segments := path.Segments()
	prefixes := path.Prefixes()
	current := owner
	for i, seg := range segments {
		key := prefixes[i]
		res.Owner, res.Segment = current, seg

		if i == len(segments)-1 {
			if !r.defineLeaf(&res, current, seg, key) {
				return res
			}
			b, err := r.registry.GetOrCreate(current, seg, string(key))
			if err != nil {
				r.warn(&res, &VivificationWarning{Path: path, Segment: seg, Cause: err})
				return res
			}
			res.Binding = b
			res.Complete = true
			return res
		}

		next, err := r.vivify(current, seg, key)
		if err != nil {
			r.warn(&res, &VivificationWarning{Path: path, Segment: seg, Cause: err})
			return res
		}
		if _, err := r.registry.GetOrCreate(current, seg, string(key)); err != nil {
			r.warn(&res, &VivificationWarning{Path: path, Segment: seg, Cause: err})
			return res
		}
		current = next
	}
	return res
}

// vivify returns the object stored at seg, creating an empty one when the
// slot is missing or still Undeclared
func (r *Resolver) vivify(owner *binding.Object, seg string, key marker.Path) (*binding.Object, error) {
	v := owner.Get(seg)
	switch v.Kind() {
	case binding.KindObject:
		return v.Object(), nil
	case binding.KindUndeclared:
		if !r.properties.AllowsObject(string(key)) {
			return nil, ErrNotDeclared
		}
		obj := binding.NewObject()
		if err := owner.Set(seg, binding.ObjectValue(obj)); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: holds a %s value", binding.ErrNotObject, v.Kind())
	}
}

// defineLeaf makes sure the leaf exists, substituting the schema default or
// the Undeclared sentinel
func (r *Resolver) defineLeaf(res *Resolution, owner *binding.Object, seg string, key marker.Path) bool {
	if owner.Has(seg) {
		return true
	}
	initial := binding.Undeclared()
	if decl, ok := r.properties.Lookup(string(key)); ok && decl.HasDefault {
		initial = binding.Text(decl.Default)
	} else {
		r.warn(res, &UndeclaredPropertyWarning{Path: key})
	}
	if _, err := owner.Define(seg, initial); err != nil {
		r.warn(res, &VivificationWarning{Path: key, Segment: seg, Cause: err})
		return false
	}
	return true
}

package binding

import (
	"fmt"
	"sort"
	"strings"

	"telepathic-go/packages/telepathic/util"
)

// Registry holds the one Binding per property path of a component instance
type Registry struct {
	bindings map[string]*Binding
	opts     []Option
	console  util.Console
}

// NewRegistry creates an empty registry; opts are applied to every Binding it creates
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		bindings: make(map[string]*Binding),
		opts:     opts,
		console:  newSettings(opts).console,
	}
}

// GetOrCreate returns the Binding registered under key, creating it for
// owner's property on first use
func (r *Registry) GetOrCreate(owner *Object, property, key string) (*Binding, error) {
	if b, ok := r.bindings[key]; ok {
		return b, nil
	}
	opts := append(append([]Option{}, r.opts...), WithKey(key))
	b, err := New(owner, property, opts...)
	if err != nil {
		return nil, err
	}
	r.bindings[key] = b
	b.OnChange(func(_, v Value) {
		if v.Kind() == KindObject {
			r.rebaseChildren(key, v.Object())
		}
	})
	return b, nil
}

// rebaseChildren moves the bindings nested directly under key onto a
// replacement object, recursing into nested objects
func (r *Registry) rebaseChildren(key string, owner *Object) {
	prefix := key + "."
	for _, childKey := range r.Keys() {
		rest, ok := strings.CutPrefix(childKey, prefix)
		if !ok || strings.Contains(rest, ".") {
			continue
		}
		child := r.bindings[childKey]
		if err := child.rebase(owner); err != nil {
			r.console.Warn(fmt.Sprintf("binding %q stays on its previous owner: %v", childKey, err))
			continue
		}
		switch v := child.Get(); {
		case v.Kind() == KindObject:
			r.rebaseChildren(childKey, v.Object())
		case v.IsUndeclared() && r.hasChildren(childKey):
			// keeps every prefix of a nested binding resolvable
			if err := child.Set(ObjectValue(NewObject())); err != nil {
				r.console.Warn(fmt.Sprintf("binding %q: %v", childKey, err))
			}
		}
	}
}

func (r *Registry) hasChildren(key string) bool {
	prefix := key + "."
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Lookup returns the Binding registered under key
func (r *Registry) Lookup(key string) (*Binding, bool) {
	b, ok := r.bindings[key]
	return b, ok
}

// Keys returns the registered keys, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.bindings))
	for k := range r.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bindings
func (r *Registry) Len() int {
	return len(r.bindings)
}

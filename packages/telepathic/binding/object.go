package binding

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSealed is returned when a property is added to a sealed object.
	ErrSealed = errors.New("object is not extensible")
	// ErrReadOnly is returned when a read-only property is written.
	ErrReadOnly = errors.New("property is read-only")
	// ErrNotObject is returned when a path walks through a non-object value.
	ErrNotObject = errors.New("value is not an object")
)

// ChangeListener observes a property write
type ChangeListener func(old, new Value)

// Property is an observable slot on an Object
type Property struct {
	name      string
	value     Value
	readOnly  bool
	listeners []ChangeListener
}

// Name returns the property name
func (p *Property) Name() string {
	return p.name
}

// Get returns the current value
func (p *Property) Get() Value {
	return p.value
}

// ReadOnly reports whether writes are refused
func (p *Property) ReadOnly() bool {
	return p.readOnly
}

// Set stores v and notifies every listener synchronously, in registration order
func (p *Property) Set(v Value) error {
	if p.readOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, p.name)
	}
	old := p.value
	p.value = v
	for _, fn := range append([]ChangeListener{}, p.listeners...) {
		if fn != nil {
			fn(old, v)
		}
	}
	return nil
}

// OnChange registers fn and returns a function that unregisters it
func (p *Property) OnChange(fn ChangeListener) func() {
	p.listeners = append(p.listeners, fn)
	index := len(p.listeners) - 1
	return func() {
		if index < len(p.listeners) {
			p.listeners[index] = nil
		}
	}
}

// Object owns a set of named properties. Bindings observe its properties
// instead of intercepting plain fields.
type Object struct {
	props  map[string]*Property
	sealed bool
}

// NewObject creates an empty, extensible object
func NewObject() *Object {
	return &Object{props: make(map[string]*Property)}
}

// Seal prevents new properties from being added
func (o *Object) Seal() {
	o.sealed = true
}

// Sealed reports whether the object is sealed
func (o *Object) Sealed() bool {
	return o.sealed
}

// Has reports whether name is defined
func (o *Object) Has(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Property returns the slot for name
func (o *Object) Property(name string) (*Property, bool) {
	p, ok := o.props[name]
	return p, ok
}

// Define adds name with value v and returns the slot. An existing slot is
// returned unchanged.
func (o *Object) Define(name string, v Value) (*Property, error) {
	if p, ok := o.props[name]; ok {
		return p, nil
	}
	if o.sealed {
		return nil, fmt.Errorf("%w: cannot add %q", ErrSealed, name)
	}
	p := &Property{name: name, value: v}
	o.props[name] = p
	return p, nil
}

// DefineReadOnly adds a property that refuses writes
func (o *Object) DefineReadOnly(name string, v Value) (*Property, error) {
	p, err := o.Define(name, v)
	if err != nil {
		return nil, err
	}
	p.readOnly = true
	return p, nil
}

// Get returns the value of name, Undeclared when absent
func (o *Object) Get(name string) Value {
	if p, ok := o.props[name]; ok {
		return p.value
	}
	return Undeclared()
}

// Set writes name, defining it first when absent
func (o *Object) Set(name string, v Value) error {
	p, err := o.Define(name, Undeclared())
	if err != nil {
		return err
	}
	return p.Set(v)
}

// SetText is Set with a Text value
func (o *Object) SetText(name, s string) error {
	return o.Set(name, Text(s))
}

// Names returns the defined property names, sorted
func (o *Object) Names() []string {
	names := make([]string, 0, len(o.props))
	for name := range o.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// walk returns the object holding the last segment of path
func (o *Object) walk(path string) (*Object, string, error) {
	segments := strings.Split(path, ".")
	current := o
	for _, seg := range segments[:len(segments)-1] {
		v := current.Get(seg)
		if v.Kind() != KindObject {
			return nil, "", fmt.Errorf("%w: %q in %q", ErrNotObject, seg, path)
		}
		current = v.Object()
	}
	return current, segments[len(segments)-1], nil
}

// GetPath reads a dotted path, Undeclared when any segment is missing
func (o *Object) GetPath(path string) Value {
	owner, name, err := o.walk(path)
	if err != nil {
		return Undeclared()
	}
	return owner.Get(name)
}

// SetPath writes a dotted path whose prefixes are already objects
func (o *Object) SetPath(path string, v Value) error {
	owner, name, err := o.walk(path)
	if err != nil {
		return err
	}
	return owner.Set(name, v)
}

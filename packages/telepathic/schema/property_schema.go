package schema

import (
	"fmt"
	"sort"
	"strings"
)

// PropertyType is the declared type of a property path
type PropertyType int

const (
	TypeText PropertyType = iota
	TypeNode
	TypeObject
)

func (t PropertyType) String() string {
	switch t {
	case TypeNode:
		return "node"
	case TypeObject:
		return "object"
	default:
		return "text"
	}
}

// PropertyDecl declares one dotted path
type PropertyDecl struct {
	Path    string
	Type    PropertyType
	Default string
	// HasDefault distinguishes an empty default from no default
	HasDefault bool
}

// PropertySchema maps dotted paths to their declared type and default.
// Declaring a path implicitly declares its prefixes as objects.
type PropertySchema struct {
	decls map[string]*PropertyDecl
}

// NewPropertySchema creates an empty schema
func NewPropertySchema() *PropertySchema {
	return &PropertySchema{decls: make(map[string]*PropertyDecl)}
}

// Declare registers path with type t. Prefixes are declared as TypeObject; a
// prefix already declared with another type is an error.
func (s *PropertySchema) Declare(path string, t PropertyType) error {
	return s.declare(&PropertyDecl{Path: path, Type: t})
}

// DeclareText registers a text path with a default value
func (s *PropertySchema) DeclareText(path, defaultValue string) error {
	return s.declare(&PropertyDecl{Path: path, Type: TypeText, Default: defaultValue, HasDefault: true})
}

func (s *PropertySchema) declare(decl *PropertyDecl) error {
	segments := strings.Split(decl.Path, ".")
	for _, seg := range segments {
		if seg == "" {
			return fmt.Errorf("invalid property path %q", decl.Path)
		}
	}
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		if existing, ok := s.decls[prefix]; ok {
			if existing.Type != TypeObject {
				return fmt.Errorf("property %q is declared as %s, cannot hold %q", prefix, existing.Type, decl.Path)
			}
			continue
		}
		s.decls[prefix] = &PropertyDecl{Path: prefix, Type: TypeObject}
	}
	if existing, ok := s.decls[decl.Path]; ok && existing.Type == TypeObject && decl.Type != TypeObject && s.hasChildren(decl.Path) {
		return fmt.Errorf("property %q already has nested declarations", decl.Path)
	}
	s.decls[decl.Path] = decl
	return nil
}

func (s *PropertySchema) hasChildren(path string) bool {
	prefix := path + "."
	for p := range s.decls {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Lookup returns the declaration of path
func (s *PropertySchema) Lookup(path string) (*PropertyDecl, bool) {
	if s == nil {
		return nil, false
	}
	decl, ok := s.decls[path]
	return decl, ok
}

// AllowsObject reports whether path may be vivified as an object. A nil
// schema allows everything.
func (s *PropertySchema) AllowsObject(path string) bool {
	if s == nil {
		return true
	}
	decl, ok := s.decls[path]
	return ok && decl.Type == TypeObject
}

// Validate returns the paths that are not declared, sorted
func (s *PropertySchema) Validate(paths []string) []string {
	if s == nil {
		return nil
	}
	var missing []string
	for _, p := range paths {
		if _, ok := s.decls[p]; !ok {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}

// Paths returns every declared path, sorted
func (s *PropertySchema) Paths() []string {
	paths := make([]string, 0, len(s.decls))
	for p := range s.decls {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

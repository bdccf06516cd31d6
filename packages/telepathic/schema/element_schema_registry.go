package schema

import "strings"

// AttributeKind selects how a bound value is written to an attribute
type AttributeKind int

const (
	// KindAttribute writes the stringified value with SetAttribute.
	KindAttribute AttributeKind = iota
	// KindClass swaps the previous class token for the new one.
	KindClass
	// KindValue writes the form-field value property.
	KindValue
	// KindContent replaces the element content (text or a live node).
	KindContent
)

func (k AttributeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValue:
		return "value"
	case KindContent:
		return "content"
	default:
		return "attribute"
	}
}

// SecurityContext classifies attributes whose values need sanitizing
type SecurityContext int

const (
	SecurityContextNone SecurityContext = iota
	SecurityContextURL
	SecurityContextResourceURL
)

// ElementSchemaRegistry answers the per-element questions the binding engine asks
type ElementSchemaRegistry interface {
	// AttributeKind returns how values bound to tag/attr are applied
	AttributeKind(tagName string, attrName string) AttributeKind

	// SecurityContext returns the sanitization context of tag/attr
	SecurityContext(tagName string, attrName string) SecurityContext

	// IsRawText reports whether text inside tagName must not be interpolated
	IsRawText(tagName string) bool
}

// DomElementSchemaRegistry is the ElementSchemaRegistry for HTML elements
type DomElementSchemaRegistry struct {
	kinds    map[string]AttributeKind
	security map[string]SecurityContext
	rawText  map[string]bool
}

// NewDomElementSchemaRegistry creates the HTML schema
func NewDomElementSchemaRegistry() *DomElementSchemaRegistry {
	r := &DomElementSchemaRegistry{
		kinds:    make(map[string]AttributeKind),
		security: make(map[string]SecurityContext),
		rawText: map[string]bool{
			"script": true,
			"style":  true,
		},
	}
	// Case is insignificant below, all element and attribute names are lower-cased for lookup.
	r.registerKind(KindClass, []string{
		"*|class",
		"*|classname",
	})
	r.registerKind(KindValue, []string{
		"input|value",
		"select|value",
		"textarea|value",
	})
	r.registerKind(KindContent, []string{
		"*|innerhtml",
		"*|textcontent",
	})
	r.registerSecurity(SecurityContextURL, []string{
		"*|formaction",
		"area|href",
		"a|href",
		"audio|src",
		"blockquote|cite",
		"form|action",
		"img|src",
		"input|src",
		"q|cite",
		"source|src",
		"track|src",
		"video|poster",
		"video|src",
	})
	r.registerSecurity(SecurityContextResourceURL, []string{
		"base|href",
		"embed|src",
		"iframe|src",
		"link|href",
		"object|data",
		"script|src",
	})
	return r
}

func (r *DomElementSchemaRegistry) registerKind(kind AttributeKind, specs []string) {
	for _, spec := range specs {
		r.kinds[strings.ToLower(spec)] = kind
	}
}

func (r *DomElementSchemaRegistry) registerSecurity(ctx SecurityContext, specs []string) {
	for _, spec := range specs {
		r.security[strings.ToLower(spec)] = ctx
	}
}

func lookup[T any](table map[string]T, tagName, attrName string) (T, bool) {
	tagName = strings.ToLower(tagName)
	attrName = strings.ToLower(attrName)
	if v, ok := table[tagName+"|"+attrName]; ok {
		return v, true
	}
	v, ok := table["*|"+attrName]
	return v, ok
}

// AttributeKind implements ElementSchemaRegistry
func (r *DomElementSchemaRegistry) AttributeKind(tagName string, attrName string) AttributeKind {
	kind, _ := lookup(r.kinds, tagName, attrName)
	return kind
}

// SecurityContext implements ElementSchemaRegistry
func (r *DomElementSchemaRegistry) SecurityContext(tagName string, attrName string) SecurityContext {
	ctx, _ := lookup(r.security, tagName, attrName)
	return ctx
}

// IsRawText implements ElementSchemaRegistry
func (r *DomElementSchemaRegistry) IsRawText(tagName string) bool {
	return r.rawText[strings.ToLower(tagName)]
}

var defaultRegistry = NewDomElementSchemaRegistry()

// Default returns the shared HTML schema. It is read-only after construction.
func Default() ElementSchemaRegistry {
	return defaultRegistry
}

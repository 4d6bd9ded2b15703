package introspect

import (
	"reflect"
)

// SourceKind identifies the element an annotation was read from.
type SourceKind int

const (
	SourceAccessor SourceKind = iota
	SourceField
	SourceComponent
)

func (k SourceKind) String() string {
	switch k {
	case SourceAccessor:
		return "accessor"
	case SourceField:
		return "field"
	case SourceComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Source is one annotation-bearing element of a property. Tags use regular
// struct tag syntax regardless of where they were declared.
type Source struct {
	Kind SourceKind
	Tag  reflect.StructTag
}

// Accessor is implemented by types that declare markers in code. Keys are
// property names; values use struct tag syntax (`crud:"hidden"`). Accessor
// markers win over field tags.
type Accessor interface {
	CrudAccessors() map[string]string
}

// Component is one positional component of a Record.
type Component struct {
	Name string
	Tag  string
}

// Record is implemented by immutable value types. Properties come from the
// components, in order, and are never writable.
type Record interface {
	CrudComponents() []Component
}

// Property describes one property of an inspected type. Values are immutable
// once returned by Inspect.
type Property struct {
	Name       string
	Index      int
	FieldName  string
	FieldIndex []int
	Type       reflect.Type
	Sources    []Source
	Writable   bool
}

// Lookup returns the raw value stored under key in the first source that
// carries it, scanning accessor, field and component sources in that order.
func (p Property) Lookup(key string) (string, SourceKind, bool) {
	for _, src := range p.Sources {
		if value, ok := src.Tag.Lookup(key); ok {
			return value, src.Kind, true
		}
	}
	return "", 0, false
}

// Marker returns the value of a crud marker. Flag markers report an empty
// value with ok=true.
func (p Property) Marker(name string) (string, bool) {
	for _, src := range p.Sources {
		raw, ok := src.Tag.Lookup(TagKey)
		if !ok {
			continue
		}
		if value, found := ParseTag(raw)[name]; found {
			return value, true
		}
	}
	return "", false
}

// HasMarker reports whether any source carries the named crud marker.
func (p Property) HasMarker(name string) bool {
	_, ok := p.Marker(name)
	return ok
}

// FieldTag returns the struct tag of the backing field, if any.
func (p Property) FieldTag() (reflect.StructTag, bool) {
	for _, src := range p.Sources {
		if src.Kind == SourceField {
			return src.Tag, true
		}
	}
	return "", false
}

// Result is the outcome of inspecting one type.
type Result struct {
	Type       reflect.Type
	Properties []Property
	Identity   int
	Version    int
	Record     bool
}

// IdentityProperty returns the identity property when the type declares one.
func (r Result) IdentityProperty() (Property, bool) {
	if r.Identity < 0 || r.Identity >= len(r.Properties) {
		return Property{}, false
	}
	return r.Properties[r.Identity], true
}

// VersionProperty returns the version property when the type declares one.
func (r Result) VersionProperty() (Property, bool) {
	if r.Version < 0 || r.Version >= len(r.Properties) {
		return Property{}, false
	}
	return r.Properties[r.Version], true
}

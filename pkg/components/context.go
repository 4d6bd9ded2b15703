package components

import (
	"reflect"

	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Container is implemented by custom collection types that know their
// element type. Returning nil means the element type is unconstrained.
type Container interface {
	ElementType() reflect.Type
}

var containerType = reflect.TypeOf((*Container)(nil)).Elem()

// Context is the resolution tuple for one property.
type Context struct {
	DeclaringType reflect.Type
	Property      string
	ValueType     reflect.Type
	ElementType   reflect.Type
}

// NewContext builds the context for a semantic property of declaring.
func NewContext(declaring reflect.Type, prop semantic.Property) Context {
	return ForField(declaring, prop.Name, prop.Type)
}

// ForField builds a context and derives the element type for containers.
func ForField(declaring reflect.Type, property string, valueType reflect.Type) Context {
	return Context{
		DeclaringType: declaring,
		Property:      property,
		ValueType:     valueType,
		ElementType:   ElementType(valueType),
	}
}

// ElementType returns the element type of a container-shaped type, or nil for
// non-containers. Nested containers fall back to their erasure ([]any or
// map[K]any); undeterminable elements fall back to any.
func ElementType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Implements(containerType) && t.Kind() != reflect.Interface {
		return containerElement(t)
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(containerType) {
		return containerElement(reflect.PointerTo(t))
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !IsContainer(t) {
		return nil
	}
	elem := t.Elem()
	if IsContainer(elem) {
		return erasure(elem)
	}
	return elem
}

// IsContainer reports whether t is a slice, array or map, or implements
// Container.
func IsContainer(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t != reflect.TypeOf([]byte(nil))
	}
	return t.Kind() != reflect.Interface && (t.Implements(containerType) || reflect.PointerTo(t).Implements(containerType))
}

func containerElement(t reflect.Type) reflect.Type {
	var value reflect.Value
	if t.Kind() == reflect.Pointer {
		value = reflect.New(t.Elem())
	} else {
		value = reflect.Zero(t)
	}
	elem := value.Interface().(Container).ElementType()
	if elem == nil {
		return anyType
	}
	if IsContainer(elem) {
		return erasure(elem)
	}
	return elem
}

func erasure(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Map:
		return reflect.MapOf(t.Key(), anyType)
	case reflect.Slice, reflect.Array:
		return reflect.SliceOf(anyType)
	default:
		return anyType
	}
}

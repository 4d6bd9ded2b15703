package semantic

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/goliatone/go-crudmeta/internal/introspect"
)

// Model is the semantic description of one struct type. It is immutable after
// Build and safe for concurrent readers.
type Model struct {
	typ      reflect.Type
	variant  Variant
	props    []Property
	byName   map[string]int
	identity int
	version  int
	record   bool
}

// Build introspects t and interprets every property. Definition errors
// (ambiguous markers, missing record slots, invalid order values) abort the
// build; no partial model is returned.
func Build(t reflect.Type, interpreter Interpreter) (*Model, error) {
	in, err := introspect.Inspect(t)
	if err != nil {
		return nil, err
	}
	if interpreter == nil {
		interpreter = InterpreterFor(in.Type)
	}

	m := &Model{
		typ:      in.Type,
		variant:  interpreter.Variant(),
		props:    make([]Property, 0, len(in.Properties)),
		byName:   make(map[string]int, len(in.Properties)),
		identity: in.Identity,
		version:  in.Version,
		record:   in.Record,
	}
	for _, desc := range in.Properties {
		prop, err := interpreter.Interpret(in.Type, desc, in)
		if err != nil {
			return nil, err
		}
		m.byName[prop.Name] = len(m.props)
		m.props = append(m.props, prop)
	}
	return m, nil
}

// Type returns the described struct type.
func (m *Model) Type() reflect.Type { return m.typ }

// Name returns the simple type name.
func (m *Model) Name() string { return m.typ.Name() }

// Variant returns the interpreter variant used to build the model.
func (m *Model) Variant() Variant { return m.variant }

// Record reports whether the type exposes positional components.
func (m *Model) Record() bool { return m.record }

// Properties returns every property in declaration order.
func (m *Model) Properties() []Property {
	return append([]Property(nil), m.props...)
}

// Property looks up a property by name.
func (m *Model) Property(name string) (Property, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return Property{}, false
	}
	return m.props[idx], true
}

// Identity returns the identity property, if declared.
func (m *Model) Identity() (Property, bool) {
	if m.identity < 0 {
		return Property{}, false
	}
	return m.props[m.identity], true
}

// Version returns the version property, if declared.
func (m *Model) Version() (Property, bool) {
	if m.version < 0 {
		return Property{}, false
	}
	return m.props[m.version], true
}

// DefaultHidden returns the names hidden by default because they are
// technical (identity and version).
func (m *Model) DefaultHidden() []string {
	var out []string
	for _, prop := range m.props {
		if prop.Technical {
			out = append(out, prop.Name)
		}
	}
	return out
}

// Visible returns the non-hidden properties sorted by order, ties broken by
// declaration index.
func (m *Model) Visible() []Property {
	out := make([]Property, 0, len(m.props))
	for _, prop := range m.props {
		if !prop.Hidden {
			out = append(out, prop)
		}
	}
	SortByOrder(out)
	return out
}

// SortByOrder sorts properties by (Order, Index) ascending.
func SortByOrder(props []Property) {
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].Order != props[j].Order {
			return props[i].Order < props[j].Order
		}
		return props[i].Index < props[j].Index
	})
}

// Read returns the value of prop on instance (a struct value or pointer).
func (m *Model) Read(prop Property, instance any) (any, error) {
	prop, err := m.owned(prop)
	if err != nil {
		return nil, err
	}
	v, err := m.structValue(instance)
	if err != nil {
		return nil, err
	}
	field, err := v.FieldByIndexErr(prop.desc.FieldIndex)
	if err != nil {
		return nil, fmt.Errorf("semantic: read %s.%s: %w", m.typ.Name(), prop.Name, err)
	}
	return field.Interface(), nil
}

// ReadName is Read keyed by property name.
func (m *Model) ReadName(name string, instance any) (any, error) {
	prop, ok := m.Property(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, m.typ.Name(), name)
	}
	return m.Read(prop, instance)
}

// Write assigns value to prop on instance, which must be a non-nil pointer.
// A nil value writes the zero value.
func (m *Model) Write(prop Property, instance any, value any) error {
	prop, err := m.owned(prop)
	if err != nil {
		return err
	}
	if !prop.desc.Writable {
		return fmt.Errorf("%w: %s.%s", ErrInvalidPropertyKind, m.typ.Name(), prop.Name)
	}
	ptr := reflect.ValueOf(instance)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		return fmt.Errorf("%w: %s.%s requires a pointer instance", ErrInvalidPropertyKind, m.typ.Name(), prop.Name)
	}
	v, err := m.structValue(instance)
	if err != nil {
		return err
	}
	field, err := v.FieldByIndexErr(prop.desc.FieldIndex)
	if err != nil || !field.CanSet() {
		return fmt.Errorf("%w: %s.%s", ErrInvalidPropertyKind, m.typ.Name(), prop.Name)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	val := reflect.ValueOf(value)
	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case val.Type().ConvertibleTo(field.Type()) && val.Kind() == field.Kind():
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s.%s expects %s, got %s", ErrInvalidValue, m.typ.Name(), prop.Name, field.Type(), val.Type())
	}
	return nil
}

// WriteName is Write keyed by property name.
func (m *Model) WriteName(name string, instance any, value any) error {
	prop, ok := m.Property(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, m.typ.Name(), name)
	}
	return m.Write(prop, instance, value)
}

// owned returns this model's copy of prop. Properties taken from another
// model fail with ErrUnknownProperty.
func (m *Model) owned(prop Property) (Property, error) {
	idx, ok := m.byName[prop.Name]
	if ok {
		own := m.props[idx]
		if own.Index == prop.Index && slices.Equal(own.desc.FieldIndex, prop.desc.FieldIndex) {
			return own, nil
		}
	}
	return Property{}, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, m.typ.Name(), prop.Name)
}

func (m *Model) structValue(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrTypeMismatch, m.typ)
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != m.typ {
		return reflect.Value{}, fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, m.typ, instance)
	}
	return v, nil
}

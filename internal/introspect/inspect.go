package introspect

import (
	"fmt"
	"reflect"
)

var (
	accessorType = reflect.TypeOf((*Accessor)(nil)).Elem()
	recordType   = reflect.TypeOf((*Record)(nil)).Elem()
)

type slot struct {
	name  string
	field reflect.StructField
	index []int
}

// Inspect reflects over t and returns its properties in declaration order
// (record types use component order). Pointer types are dereferenced.
func Inspect(t reflect.Type) (Result, error) {
	if t == nil {
		return Result{}, ErrNotStruct
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Result{}, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	slots, err := collectSlots(t, nil, nil)
	if err != nil {
		return Result{}, err
	}
	accessors := accessorTags(t)

	result := Result{Type: t, Identity: -1, Version: -1}
	if components, ok := recordComponents(t); ok {
		result.Record = true
		result.Properties, err = componentProperties(t, slots, components, accessors)
	} else {
		result.Properties = slotProperties(slots, accessors)
	}
	if err != nil {
		return Result{}, err
	}

	if result.Identity, err = uniqueMarker(t, result.Properties, "identity", isIdentity); err != nil {
		return Result{}, err
	}
	if result.Version, err = uniqueMarker(t, result.Properties, "version", func(p Property) bool {
		return p.HasMarker(MarkerVersion)
	}); err != nil {
		return Result{}, err
	}
	return result, nil
}

func collectSlots(t reflect.Type, prefix []int, seen map[string]struct{}) ([]slot, error) {
	if seen == nil {
		seen = make(map[string]struct{})
	}
	var out []slot
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && !hasExplicitName(field) {
			nested, err := collectSlots(field.Type, index, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		if skipField(field) {
			continue
		}

		name := propertyName(field)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("introspect: duplicate property %q on type %s", name, t)
		}
		seen[name] = struct{}{}
		out = append(out, slot{name: name, field: field, index: index})
	}
	return out, nil
}

func hasExplicitName(field reflect.StructField) bool {
	if raw, ok := field.Tag.Lookup(TagKey); ok && ParseTag(raw)[MarkerName] != "" {
		return true
	}
	if raw, ok := field.Tag.Lookup("json"); ok && raw != "" && raw[0] != ',' && raw != "-" {
		return true
	}
	return false
}

func slotProperties(slots []slot, accessors map[string]string) []Property {
	props := make([]Property, 0, len(slots))
	for idx, s := range slots {
		props = append(props, Property{
			Name:       s.name,
			Index:      idx,
			FieldName:  s.field.Name,
			FieldIndex: s.index,
			Type:       s.field.Type,
			Sources:    sources(accessors[s.name], s.field.Tag, ""),
			Writable:   true,
		})
	}
	return props
}

func componentProperties(t reflect.Type, slots []slot, components []Component, accessors map[string]string) ([]Property, error) {
	byName := make(map[string]slot, len(slots)*2)
	for _, s := range slots {
		byName[s.name] = s
		if _, taken := byName[s.field.Name]; !taken {
			byName[s.field.Name] = s
		}
	}

	props := make([]Property, 0, len(components))
	for idx, component := range components {
		s, ok := byName[component.Name]
		if !ok {
			return nil, &MissingSlotError{Type: t, Component: component.Name}
		}
		props = append(props, Property{
			Name:       component.Name,
			Index:      idx,
			FieldName:  s.field.Name,
			FieldIndex: s.index,
			Type:       s.field.Type,
			Sources:    sources(accessors[component.Name], s.field.Tag, reflect.StructTag(component.Tag)),
			Writable:   false,
		})
	}
	return props, nil
}

func sources(accessor string, field, component reflect.StructTag) []Source {
	out := make([]Source, 0, 3)
	if accessor != "" {
		out = append(out, Source{Kind: SourceAccessor, Tag: reflect.StructTag(accessor)})
	}
	out = append(out, Source{Kind: SourceField, Tag: field})
	if component != "" {
		out = append(out, Source{Kind: SourceComponent, Tag: component})
	}
	return out
}

func isIdentity(p Property) bool {
	return p.HasMarker(MarkerID) || hasGormPrimaryKey(p)
}

func uniqueMarker(t reflect.Type, props []Property, marker string, match func(Property) bool) (int, error) {
	found := -1
	var names []string
	for idx, prop := range props {
		if !match(prop) {
			continue
		}
		if found < 0 {
			found = idx
		}
		names = append(names, prop.Name)
	}
	if len(names) > 1 {
		return -1, &AmbiguousMarkerError{Type: t, Marker: marker, Properties: names}
	}
	return found, nil
}

func accessorTags(t reflect.Type) map[string]string {
	value, ok := zeroImplementing(t, accessorType)
	if !ok {
		return nil
	}
	return value.(Accessor).CrudAccessors()
}

func recordComponents(t reflect.Type) ([]Component, bool) {
	value, ok := zeroImplementing(t, recordType)
	if !ok {
		return nil, false
	}
	return value.(Record).CrudComponents(), true
}

// zeroImplementing returns a zero value of t (or *t) that implements iface.
func zeroImplementing(t, iface reflect.Type) (any, bool) {
	if t.Implements(iface) {
		return reflect.Zero(t).Interface(), true
	}
	if reflect.PointerTo(t).Implements(iface) {
		return reflect.New(t).Interface(), true
	}
	return nil, false
}

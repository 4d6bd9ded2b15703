package components

import (
	"encoding"
	"reflect"
	"time"

	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

func (r *Registry) registerBuiltins() {
	text := Named(ComponentText, nil)
	number := Named(ComponentNumber, nil)
	decimal := Named(ComponentDecimal, nil)

	r.RegisterKindDefault(reflect.String, text)
	r.RegisterKindDefault(reflect.Bool, Named(ComponentToggle, nil))
	for _, kind := range []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	} {
		r.RegisterKindDefault(kind, number)
	}
	r.RegisterKindDefault(reflect.Float32, decimal)
	r.RegisterKindDefault(reflect.Float64, decimal)
	r.RegisterKindDefault(reflect.Slice, FactoryFunc(listComponent))
	r.RegisterKindDefault(reflect.Map, Named(ComponentKeyValue, nil))

	r.RegisterDefault(reflect.TypeOf(time.Time{}), Named(ComponentDateTime, nil))
	r.RegisterDefault(reflect.TypeOf(time.Duration(0)), Named(ComponentDuration, nil))
	r.RegisterDefault(reflect.TypeOf([]byte(nil)), Named(ComponentText, map[string]string{"encoding": "base64"}))
	r.RegisterDefault(reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem(), text)

	r.RegisterEnumDefault(FactoryFunc(selectComponent))
}

func selectComponent(ctx Context) Component {
	comp := newComponent(ComponentSelect, ctx, nil)
	comp.Enum, _ = semantic.EnumValues(derefType(ctx.ValueType))
	return comp
}

// listComponent renders enum or primitive element lists as chips and
// everything else as a repeatable list.
func listComponent(ctx Context) Component {
	elem := ctx.ElementType
	if elem == nil {
		elem = ElementType(ctx.ValueType)
	}
	switch {
	case elem != nil && semantic.IsEnum(elem):
		comp := newComponent(ComponentChips, ctx, nil)
		comp.Enum, _ = semantic.EnumValues(elem)
		return comp
	case elem != nil && elem.Kind() == reflect.String:
		return newComponent(ComponentChips, ctx, nil)
	case elem != nil && elem.Kind() == reflect.Map:
		return newComponent(ComponentKeyValue, ctx, nil)
	default:
		return newComponent(ComponentList, ctx, nil)
	}
}

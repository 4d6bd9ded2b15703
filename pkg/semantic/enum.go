package semantic

import "reflect"

// Enum is implemented by enumeration-shaped value types.
type Enum interface {
	EnumValues() []string
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// IsEnum reports whether t (or *t) implements Enum.
func IsEnum(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(enumType) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(enumType))
}

// EnumValues returns the declared values of an enumeration-shaped type.
func EnumValues(t reflect.Type) ([]string, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return nil, false
	}
	if t.Implements(enumType) {
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(Enum).EnumValues(), true
		}
		return reflect.Zero(t).Interface().(Enum).EnumValues(), true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(enumType) {
		return reflect.New(t).Interface().(Enum).EnumValues(), true
	}
	return nil, false
}

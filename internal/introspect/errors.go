package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNotStruct is returned when the inspected type is not a struct (or a
	// pointer to one).
	ErrNotStruct = errors.New("introspect: type is not a struct")
	// ErrAmbiguousMarker is wrapped by AmbiguousMarkerError.
	ErrAmbiguousMarker = errors.New("introspect: ambiguous marker")
	// ErrMissingSlot is wrapped by MissingSlotError.
	ErrMissingSlot = errors.New("introspect: missing backing field")
)

// AmbiguousMarkerError reports more than one property carrying the identity
// or version marker on the same type.
type AmbiguousMarkerError struct {
	Type       reflect.Type
	Marker     string
	Properties []string
}

func (e *AmbiguousMarkerError) Error() string {
	return fmt.Sprintf("introspect: multiple %s properties on type %s: %s",
		e.Marker, typeName(e.Type), strings.Join(e.Properties, ", "))
}

func (e *AmbiguousMarkerError) Unwrap() error { return ErrAmbiguousMarker }

// MissingSlotError reports a record component without a struct field of the
// same name.
type MissingSlotError struct {
	Type      reflect.Type
	Component string
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("introspect: component %q of type %s has no backing field", e.Component, typeName(e.Type))
}

func (e *MissingSlotError) Unwrap() error { return ErrMissingSlot }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

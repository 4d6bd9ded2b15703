package components

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoComponent is wrapped by ResolutionError.
var ErrNoComponent = errors.New("components: no component factory")

// ResolutionError identifies the resolution tuple that matched no factory.
type ResolutionError struct {
	DeclaringType reflect.Type
	Property      string
	DeclaredType  reflect.Type
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("components: no factory for %s.%s (type %s)",
		typeString(e.DeclaringType), e.Property, typeString(e.DeclaredType))
}

func (e *ResolutionError) Unwrap() error { return ErrNoComponent }

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

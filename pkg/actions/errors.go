package actions

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidProvider is wrapped by ProviderTypeError.
	ErrInvalidProvider = errors.New("actions: invalid action provider")
	// ErrDisabled is returned when running an action whose predicate fails.
	ErrDisabled = errors.New("actions: action disabled")
	// ErrItemType is returned by typed handlers receiving an unexpected item.
	ErrItemType = errors.New("actions: unexpected item type")
)

// ProviderTypeError reports a declared provider type that does not
// implement Provider or cannot be constructed.
type ProviderTypeError struct {
	Type     reflect.Type
	Provider reflect.Type
}

func (e *ProviderTypeError) Error() string {
	return fmt.Sprintf("actions: %s declares provider %s which does not implement actions.Provider",
		typeString(e.Type), typeString(e.Provider))
}

func (e *ProviderTypeError) Unwrap() error { return ErrInvalidProvider }

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

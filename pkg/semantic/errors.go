package semantic

import "errors"

var (
	// ErrInvalidPropertyKind is returned when writing a property that has no
	// writable backing field (record components, non-pointer instances).
	ErrInvalidPropertyKind = errors.New("semantic: property has no writable backing")
	// ErrInvalidValue is returned when a written value is not assignable to the
	// property type.
	ErrInvalidValue = errors.New("semantic: value not assignable to property")
	// ErrTypeMismatch is returned when an instance does not belong to the model
	// type.
	ErrTypeMismatch = errors.New("semantic: instance type does not match model")
	// ErrUnknownProperty is returned by lookups for names the model lacks.
	ErrUnknownProperty = errors.New("semantic: unknown property")
)

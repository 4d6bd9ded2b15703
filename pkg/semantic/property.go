package semantic

import (
	"math"
	"reflect"

	"github.com/goliatone/go-crudmeta/internal/introspect"
)

// Unordered is the order assigned to properties without an explicit order
// marker. Unordered properties sort last, in declaration order.
const Unordered = math.MaxInt

// Descriptor re-exports the raw introspected property.
type Descriptor = introspect.Property

// Inspection re-exports the raw introspection result for one type.
type Inspection = introspect.Result

// Property is the semantic view of one property. Values are computed once per
// model and never mutated; override layers work on copies.
type Property struct {
	Name          string
	Index         int
	Type          reflect.Type
	Hidden        bool
	Technical     bool
	Required      bool
	ReadOnly      bool
	Writable      bool
	PermissionKey string
	LabelKey      string
	TooltipKey    string
	Order         int

	desc Descriptor
}

// HasOrder reports whether an explicit order marker was declared.
func (p Property) HasOrder() bool {
	return p.Order != Unordered
}

// Descriptor returns the raw descriptor the property was derived from.
func (p Property) Descriptor() Descriptor {
	return p.desc
}

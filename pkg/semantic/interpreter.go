package semantic

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/goliatone/go-crudmeta/internal/introspect"
)

// Variant names an interpreter strategy.
type Variant string

const (
	VariantPlain       Variant = "plain"
	VariantPersistence Variant = "persistence"
)

// Interpreter converts a raw descriptor into a semantic Property. Inspection
// carries the identity/version pointers computed by the introspector.
type Interpreter interface {
	Variant() Variant
	Interpret(t reflect.Type, d Descriptor, in Inspection) (Property, error)
}

// InterpreterFactory selects the interpreter for a type. The decision is made
// once per type.
type InterpreterFactory func(t reflect.Type) Interpreter

var (
	tablerType    = reflect.TypeOf((*schema.Tabler)(nil)).Elem()
	gormModelType = reflect.TypeOf(gorm.Model{})
)

// InterpreterFor returns Persistence for gorm-mapped entities (types that
// implement schema.Tabler or embed gorm.Model) and Plain otherwise.
func InterpreterFor(t reflect.Type) Interpreter {
	if IsEntity(t) {
		return Persistence{}
	}
	return Plain{}
}

// IsEntity reports whether t carries the persistence-mapped entity marker.
func IsEntity(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Implements(tablerType) || reflect.PointerTo(t).Implements(tablerType) {
		return true
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == gormModelType {
			return true
		}
	}
	return false
}

// Plain derives hidden and required from explicit markers only.
type Plain struct{}

// Variant implements Interpreter.
func (Plain) Variant() Variant { return VariantPlain }

// Interpret implements Interpreter.
func (Plain) Interpret(t reflect.Type, d Descriptor, in Inspection) (Property, error) {
	return interpret(t, d, in)
}

// Persistence extends Plain: a property backed by a `gorm:"not null"` column
// is required even without an explicit marker.
type Persistence struct{}

// Variant implements Interpreter.
func (Persistence) Variant() Variant { return VariantPersistence }

// Interpret implements Interpreter.
func (Persistence) Interpret(t reflect.Type, d Descriptor, in Inspection) (Property, error) {
	prop, err := interpret(t, d, in)
	if err != nil {
		return Property{}, err
	}
	if !prop.Required && notNullColumn(d) {
		prop.Required = true
	}
	return prop, nil
}

func notNullColumn(d Descriptor) bool {
	tag, ok := d.FieldTag()
	if !ok {
		return false
	}
	_, notNull := introspect.GormSettings(tag)["NOT NULL"]
	return notNull
}

func interpret(t reflect.Type, d Descriptor, in Inspection) (Property, error) {
	technical := d.Index == in.Identity || d.Index == in.Version

	prop := Property{
		Name:      d.Name,
		Index:     d.Index,
		Type:      d.Type,
		Technical: technical,
		Hidden:    technical || d.HasMarker(introspect.MarkerHidden),
		Required:  d.HasMarker(introspect.MarkerRequired),
		ReadOnly:  d.HasMarker(introspect.MarkerReadOnly),
		Writable:  d.Writable,
		LabelKey:  d.Name,
		Order:     Unordered,
		desc:      d,
	}

	if perm, ok := d.Marker(introspect.MarkerPerm); ok && strings.TrimSpace(perm) != "" {
		prop.PermissionKey = strings.TrimSpace(perm)
	}
	if label, ok := d.Marker(introspect.MarkerLabel); ok && strings.TrimSpace(label) != "" {
		prop.LabelKey = strings.TrimSpace(label)
	}
	if tooltip, ok := d.Marker(introspect.MarkerTooltip); ok {
		prop.TooltipKey = strings.TrimSpace(tooltip)
	}
	if raw, ok := d.Marker(introspect.MarkerOrder); ok {
		order, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Property{}, fmt.Errorf("semantic: property %q on type %s has invalid order %q", d.Name, t, raw)
		}
		prop.Order = order
	}
	return prop, nil
}

package components

import "reflect"

// Built-in component identifiers.
const (
	ComponentText       = "text"
	ComponentNumber     = "number"
	ComponentDecimal    = "decimal"
	ComponentToggle     = "toggle"
	ComponentDateTime   = "datetime"
	ComponentDuration   = "duration"
	ComponentSelect     = "select"
	ComponentChips      = "chips"
	ComponentList       = "list"
	ComponentKeyValue   = "key-value"
	ComponentJSONEditor = "json-editor"
)

// Component is the UI-agnostic surface produced for one property. Renderers
// map Name onto their own widgets.
type Component struct {
	Name        string            `json:"name"`
	Property    string            `json:"property"`
	ValueType   reflect.Type      `json:"-"`
	ElementType reflect.Type      `json:"-"`
	Enum        []string          `json:"enum,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
}

// Factory creates the component for a resolution context.
type Factory interface {
	Create(ctx Context) Component
}

// FactoryFunc adapts a function into a Factory.
type FactoryFunc func(ctx Context) Component

// Create calls the underlying function.
func (fn FactoryFunc) Create(ctx Context) Component {
	return fn(ctx)
}

// Named returns a factory producing a component called name with a copy of
// options.
func Named(name string, options map[string]string) Factory {
	return FactoryFunc(func(ctx Context) Component {
		return newComponent(name, ctx, options)
	})
}

func newComponent(name string, ctx Context, options map[string]string) Component {
	comp := Component{
		Name:        name,
		Property:    ctx.Property,
		ValueType:   ctx.ValueType,
		ElementType: ctx.ElementType,
	}
	if len(options) > 0 {
		comp.Options = make(map[string]string, len(options))
		for k, v := range options {
			comp.Options[k] = v
		}
	}
	return comp
}

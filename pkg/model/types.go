package model

import (
	"reflect"
	"time"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeArray    FieldType = "array"
	FieldTypeObject   FieldType = "object"
)

// Metadata keys set by the scaffold builder.
const (
	MetadataRequiredIndicator = "required.indicator"
	MetadataPermission        = "permission"
	MetadataForcedReadOnly    = "readonly.forced"
	MetadataTechnical         = "technical"
	MetadataElementType       = "elementType"
)

var timeType = reflect.TypeOf(time.Time{})

// FieldTypeFor maps a Go type onto a FieldType.
func FieldTypeFor(t reflect.Type) FieldType {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return FieldTypeObject
	}
	if t == timeType {
		return FieldTypeDateTime
	}
	switch t.Kind() {
	case reflect.String:
		return FieldTypeString
	case reflect.Bool:
		return FieldTypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FieldTypeInteger
	case reflect.Float32, reflect.Float64:
		return FieldTypeNumber
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return FieldTypeString
		}
		return FieldTypeArray
	default:
		return FieldTypeObject
	}
}

// Field models one input of a generated form.
type Field struct {
	Name       string            `json:"name"`
	Type       FieldType         `json:"type"`
	Component  string            `json:"component"`
	Required   bool              `json:"required"`
	ReadOnly   bool              `json:"readOnly,omitempty"`
	Label      string            `json:"label"`
	LabelKey   string            `json:"labelKey"`
	Tooltip    string            `json:"tooltip,omitempty"`
	TooltipKey string            `json:"tooltipKey,omitempty"`
	Order      int               `json:"order"`
	Enum       []string          `json:"enum,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	UIHints    map[string]string `json:"uiHints,omitempty"`
}

// FormModel is the top-level form representation renderers consume.
type FormModel struct {
	Type     string            `json:"type"`
	Locale   string            `json:"locale,omitempty"`
	Title    string            `json:"title,omitempty"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns the field called name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Column models one grid column.
type Column struct {
	Name      string    `json:"name"`
	Type      FieldType `json:"type"`
	Component string    `json:"component"`
	Label     string    `json:"label"`
	LabelKey  string    `json:"labelKey"`
	Sortable  bool      `json:"sortable"`
	Order     int       `json:"order"`
}

// Grid is the tabular representation of a type.
type Grid struct {
	Type    string   `json:"type"`
	Locale  string   `json:"locale,omitempty"`
	Columns []Column `json:"columns"`
	// Hidden lists the columns hidden by default (identity, version, and
	// explicitly hidden properties) that a column chooser may offer.
	Hidden []string `json:"hidden,omitempty"`
}

// Action is a resolved action ready for display.
type Action struct {
	ID       string `json:"id"`
	Scope    string `json:"scope"`
	Label    string `json:"label"`
	LabelKey string `json:"labelKey"`
	Tooltip  string `json:"tooltip,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// ActionBar groups resolved actions by scope.
type ActionBar struct {
	Toolbar   []Action `json:"toolbar,omitempty"`
	Item      []Action `json:"item,omitempty"`
	Selection []Action `json:"selection,omitempty"`
}

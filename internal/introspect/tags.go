package introspect

import (
	"reflect"
	"strings"
	"unicode"

	"gorm.io/gorm/schema"
)

// TagKey is the struct tag namespace holding crud markers.
const TagKey = "crud"

// GormTagKey is the struct tag namespace holding gorm column settings.
const GormTagKey = "gorm"

// Marker names understood inside the crud tag.
const (
	MarkerID       = "id"
	MarkerVersion  = "version"
	MarkerHidden   = "hidden"
	MarkerRequired = "required"
	MarkerReadOnly = "readonly"
	MarkerLabel    = "label"
	MarkerOrder    = "order"
	MarkerPerm     = "perm"
	MarkerName     = "name"
	MarkerTooltip  = "tooltip"
)

// ParseTag splits a crud tag value into its markers. Flags map to an empty
// string; key=value pairs keep their trimmed value.
func ParseTag(raw string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if found {
			out[key] = strings.TrimSpace(value)
			continue
		}
		out[key] = ""
	}
	return out
}

// GormSettings parses the gorm tag of a struct tag. Keys are upper-cased by
// gorm (NOT NULL, PRIMARYKEY, COLUMN, ...).
func GormSettings(tag reflect.StructTag) map[string]string {
	raw, ok := tag.Lookup(GormTagKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	return schema.ParseTagSetting(raw, ";")
}

func hasGormPrimaryKey(p Property) bool {
	for _, src := range p.Sources {
		settings := GormSettings(src.Tag)
		if settings == nil {
			continue
		}
		if _, ok := settings["PRIMARYKEY"]; ok {
			return true
		}
		if _, ok := settings["PRIMARY_KEY"]; ok {
			return true
		}
	}
	return false
}

func propertyName(field reflect.StructField) string {
	if raw, ok := field.Tag.Lookup(TagKey); ok {
		if name := ParseTag(raw)[MarkerName]; name != "" {
			return name
		}
	}
	if raw, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(raw, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return LowerCamel(field.Name)
}

func skipField(field reflect.StructField) bool {
	if !field.IsExported() {
		return true
	}
	raw, ok := field.Tag.Lookup(TagKey)
	return ok && strings.TrimSpace(raw) == "-"
}

// LowerCamel converts an exported Go identifier into the lower camel case
// property name: ID -> id, CreatedAt -> createdAt, URLPath -> urlPath.
func LowerCamel(name string) string {
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == 1 || upper == len(runes) || !unicode.IsLower(runes[upper]):
		for i := 0; i < upper; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	default:
		for i := 0; i < upper-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}

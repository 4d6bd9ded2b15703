package uischema

import (
	"sort"
	"strings"

	"github.com/goliatone/go-crudmeta/pkg/components"
	"github.com/goliatone/go-crudmeta/pkg/overrides"
)

// Store keeps the parsed type configurations. It is safe for concurrent
// readers when treated as immutable after construction.
type Store struct {
	types   map[string]TypeConfig
	aliases map[string]string
}

// TypeConfig describes the overrides for one type.
type TypeConfig struct {
	Name     string                 `json:"-" yaml:"-"`
	Source   string                 `json:"-" yaml:"-"`
	Title    string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Metadata map[string]string      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Fields   map[string]FieldConfig `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldConfig customises one property. Nil pointers leave the domain
// default in place.
type FieldConfig struct {
	Label     string            `json:"label,omitempty" yaml:"label,omitempty"`
	Hidden    *bool             `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Required  *bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Tooltip   string            `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Component string            `json:"component,omitempty" yaml:"component,omitempty"`
	UIHints   map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
}

// Apply replays the configured attributes on cfg.
func (f FieldConfig) Apply(cfg *overrides.Config) {
	if label := strings.TrimSpace(f.Label); label != "" {
		cfg.Label(label)
	}
	if f.Hidden != nil {
		cfg.Visible(!*f.Hidden)
	}
	if f.Required != nil {
		cfg.Required(*f.Required)
	}
	if tooltip := strings.TrimSpace(f.Tooltip); tooltip != "" {
		cfg.Tooltip(tooltip)
	}
}

// Type returns the configuration for a type name.
func (s *Store) Type(name string) (TypeConfig, bool) {
	if s == nil {
		return TypeConfig{}, false
	}
	cfg, ok := s.types[name]
	return cfg, ok
}

// Types returns the configured type names sorted.
func (s *Store) Types() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.types))
	for name := range s.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the store holds any configuration.
func (s *Store) Empty() bool {
	return s == nil || (len(s.types) == 0 && len(s.aliases) == 0)
}

// Overrides returns a fresh override set for the named type. Unknown types
// yield an empty set.
func (s *Store) Overrides(typeName string) *overrides.Set {
	set := overrides.NewSet()
	cfg, ok := s.Type(typeName)
	if !ok {
		return set
	}
	names := make([]string, 0, len(cfg.Fields))
	for name := range cfg.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		field := cfg.Fields[name]
		set.Override(name, field.Apply)
	}
	return set
}

// Aliases returns the registry alias configuration: the document level
// `components` map plus `Type.property` entries for field components.
func (s *Store) Aliases() map[string]string {
	out := make(map[string]string)
	if s == nil {
		return out
	}
	for key, name := range s.aliases {
		out[key] = name
	}
	for typeName, cfg := range s.types {
		for prop, field := range cfg.Fields {
			if component := strings.TrimSpace(field.Component); component != "" {
				out[typeName+"."+prop] = component
			}
		}
	}
	return out
}

// Configure installs the aliases on registry.
func (s *Store) Configure(registry *components.Registry) {
	if registry == nil {
		return
	}
	registry.SetAliases(s.Aliases())
}

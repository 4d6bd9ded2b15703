package overrides

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

// ErrUnknownProperty is wrapped by UnknownPropertiesError.
var ErrUnknownProperty = errors.New("overrides: unknown property")

// UnknownPropertiesError lists every overridden name the model lacks.
type UnknownPropertiesError struct {
	Type  string
	Names []string
}

func (e *UnknownPropertiesError) Error() string {
	return fmt.Sprintf("overrides: unknown properties on type %s: %s", e.Type, strings.Join(e.Names, ", "))
}

func (e *UnknownPropertiesError) Unwrap() error { return ErrUnknownProperty }

// Func mutates one property config.
type Func func(*Config)

// Set collects override functions keyed by property name. A Set is meant to
// be assembled during a build and is not safe for concurrent mutation.
type Set struct {
	names []string
	fns   map[string][]Func
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{fns: make(map[string][]Func)}
}

// Override registers fn for the named property. Repeated calls for the same
// name compose in registration order.
func (s *Set) Override(name string, fn Func) *Set {
	if fn == nil {
		return s
	}
	if s.fns == nil {
		s.fns = make(map[string][]Func)
	}
	if _, seen := s.fns[name]; !seen {
		s.names = append(s.names, name)
	}
	s.fns[name] = append(s.fns[name], fn)
	return s
}

// Merge appends every override of other after the ones already registered.
func (s *Set) Merge(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, name := range other.names {
		for _, fn := range other.fns[name] {
			s.Override(name, fn)
		}
	}
	return s
}

// Names returns the overridden property names in registration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of overridden property names.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Build seeds a config per model property and applies the overrides. Unknown
// names abort the build with a single UnknownPropertiesError.
func (s *Set) Build(model *semantic.Model) (*Result, error) {
	if model == nil {
		return nil, errors.New("overrides: model is required")
	}

	if s != nil {
		var unknown []string
		for _, name := range s.names {
			if _, ok := model.Property(name); !ok {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &UnknownPropertiesError{Type: model.Name(), Names: unknown}
		}
	}

	props := model.Properties()
	res := &Result{
		configs: make([]*Config, 0, len(props)),
		byName:  make(map[string]*Config, len(props)),
	}
	for _, prop := range props {
		cfg := newConfig(prop)
		if s != nil {
			for _, fn := range s.fns[prop.Name] {
				fn(cfg)
			}
		}
		res.configs = append(res.configs, cfg)
		res.byName[prop.Name] = cfg
	}
	return res, nil
}

// Result holds the configs produced by one build.
type Result struct {
	configs []*Config
	byName  map[string]*Config
}

// Config returns the config for name.
func (r *Result) Config(name string) (*Config, bool) {
	cfg, ok := r.byName[name]
	return cfg, ok
}

// All returns every config in declaration order.
func (r *Result) All() []*Config {
	return append([]*Config(nil), r.configs...)
}

// Visible returns the effectively visible configs sorted by the semantic
// order, ties broken by declaration index.
func (r *Result) Visible() []*Config {
	out := make([]*Config, 0, len(r.configs))
	for _, cfg := range r.configs {
		if cfg.IsVisible() {
			out = append(out, cfg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].property, out[j].property
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Index < b.Index
	})
	return out
}

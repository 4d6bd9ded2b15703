package components

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

// Reserved alias keys consulted after the type-derived alias keys.
const (
	AliasEnum = "Enum"
)

// Level identifies the precedence level that produced a binding.
type Level int

const (
	LevelProperty Level = iota + 1
	LevelType
	LevelAlias
	LevelDefault
)

func (l Level) String() string {
	switch l {
	case LevelProperty:
		return "property"
	case LevelType:
		return "type"
	case LevelAlias:
		return "alias"
	case LevelDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Binding is a resolved factory plus the level and key that produced it.
type Binding struct {
	Factory Factory
	Level   Level
	Key     string
}

// Create invokes the bound factory.
func (b Binding) Create(ctx Context) Component {
	if b.Factory == nil {
		return Component{}
	}
	return b.Factory.Create(ctx)
}

type propertyKey struct {
	typ  reflect.Type
	name string
}

type capabilityEntry struct {
	typ     reflect.Type
	factory Factory
}

// Option customises a Registry.
type Option func(*Registry)

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithoutDefaults skips registration of the built-in default table.
func WithoutDefaults() Option {
	return func(r *Registry) {
		r.skipDefaults = true
	}
}

// Registry resolves component bindings. It is safe for concurrent use.
type Registry struct {
	byProperty sync.Map // propertyKey -> Factory
	byType     sync.Map // reflect.Type -> Factory
	named      sync.Map // string -> Factory
	aliases    sync.Map // string -> string

	defaults     sync.Map // reflect.Type -> Factory
	kinds        sync.Map // reflect.Kind -> Factory
	capabilities atomic.Pointer[[]capabilityEntry]
	enumDefault  atomic.Pointer[Factory]

	logger       zerolog.Logger
	skipDefaults bool
}

// NewRegistry constructs a registry with the built-in defaults registered.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	empty := make([]capabilityEntry, 0)
	r.capabilities.Store(&empty)
	if !r.skipDefaults {
		r.registerBuiltins()
	}
	return r
}

// OverrideByProperty binds factory to one property of declaring.
func (r *Registry) OverrideByProperty(declaring reflect.Type, property string, factory Factory) {
	if declaring == nil || factory == nil || strings.TrimSpace(property) == "" {
		return
	}
	r.byProperty.Store(propertyKey{typ: derefType(declaring), name: property}, factory)
}

// OverrideByType binds factory to every property declared with t.
func (r *Registry) OverrideByType(t reflect.Type, factory Factory) {
	if t == nil || factory == nil {
		return
	}
	r.byType.Store(t, factory)
}

// RegisterNamed makes factory addressable by alias name.
func (r *Registry) RegisterNamed(name string, factory Factory) {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return
	}
	r.named.Store(name, factory)
}

// SetAlias maps an alias key (Type.property, qualified names, Enum, kind
// names) to a named factory.
func (r *Registry) SetAlias(key, name string) {
	key, name = strings.TrimSpace(key), strings.TrimSpace(name)
	if key == "" || name == "" {
		return
	}
	r.aliases.Store(key, name)
}

// SetAliases stores every alias of the map.
func (r *Registry) SetAliases(aliases map[string]string) {
	for key, name := range aliases {
		r.SetAlias(key, name)
	}
}

// RegisterDefault adds t to the default table. Interface types register a
// capability covering every implementor.
func (r *Registry) RegisterDefault(t reflect.Type, factory Factory) {
	if t == nil || factory == nil {
		return
	}
	if t.Kind() != reflect.Interface {
		r.defaults.Store(t, factory)
		return
	}
	for {
		current := r.capabilities.Load()
		next := make([]capabilityEntry, 0, len(*current)+1)
		for _, entry := range *current {
			if entry.typ != t {
				next = append(next, entry)
			}
		}
		next = append(next, capabilityEntry{typ: t, factory: factory})
		if r.capabilities.CompareAndSwap(current, &next) {
			return
		}
	}
}

// RegisterKindDefault sets the fallback factory for a reflect.Kind.
func (r *Registry) RegisterKindDefault(kind reflect.Kind, factory Factory) {
	if factory == nil {
		return
	}
	r.kinds.Store(kind, factory)
}

// RegisterEnumDefault sets the fallback factory for enumeration-shaped types.
func (r *Registry) RegisterEnumDefault(factory Factory) {
	if factory == nil {
		return
	}
	r.enumDefault.Store(&factory)
}

// Resolve returns the binding for ctx, or a ResolutionError when no level
// matches.
func (r *Registry) Resolve(ctx Context) (Binding, error) {
	binding, ok := r.resolve(ctx)
	if !ok {
		err := &ResolutionError{DeclaringType: ctx.DeclaringType, Property: ctx.Property, DeclaredType: ctx.ValueType}
		r.logger.Warn().Err(err).Msg("component resolution failed")
		return Binding{}, err
	}
	r.logger.Debug().
		Str("type", typeString(ctx.DeclaringType)).
		Str("property", ctx.Property).
		Str("level", binding.Level.String()).
		Str("key", binding.Key).
		Msg("component resolved")
	return binding, nil
}

// Component resolves ctx and creates the component in one step.
func (r *Registry) Component(ctx Context) (Component, error) {
	binding, err := r.Resolve(ctx)
	if err != nil {
		return Component{}, err
	}
	return binding.Create(ctx), nil
}

func (r *Registry) resolve(ctx Context) (Binding, bool) {
	if ctx.DeclaringType != nil {
		key := propertyKey{typ: derefType(ctx.DeclaringType), name: ctx.Property}
		if factory, ok := r.byProperty.Load(key); ok {
			return Binding{Factory: factory.(Factory), Level: LevelProperty, Key: ctx.Property}, true
		}
	}

	if ctx.ValueType == nil {
		return Binding{}, false
	}

	for _, t := range wrapperVariants(ctx.ValueType) {
		if factory, ok := r.byType.Load(t); ok {
			return Binding{Factory: factory.(Factory), Level: LevelType, Key: t.String()}, true
		}
	}

	for _, key := range aliasKeys(ctx) {
		raw, ok := r.aliases.Load(key)
		if !ok {
			continue
		}
		name := raw.(string)
		if factory, ok := r.named.Load(name); ok {
			return Binding{Factory: factory.(Factory), Level: LevelAlias, Key: key}, true
		}
		r.logger.Warn().Str("key", key).Str("alias", name).Msg("alias references unregistered component")
	}

	return r.resolveDefault(ctx.ValueType)
}

func (r *Registry) resolveDefault(t reflect.Type) (Binding, bool) {
	variants := wrapperVariants(t)
	if base := derefType(t); base != t && !IsPrimitive(base) {
		variants = append(variants, base)
	}
	for _, variant := range variants {
		if factory, ok := r.defaults.Load(variant); ok {
			return Binding{Factory: factory.(Factory), Level: LevelDefault, Key: variant.String()}, true
		}
	}

	for _, entry := range *r.capabilities.Load() {
		if t.Implements(entry.typ) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(entry.typ)) {
			return Binding{Factory: entry.factory, Level: LevelDefault, Key: entry.typ.String()}, true
		}
	}

	base := derefType(t)
	if semantic.IsEnum(base) {
		if factory := r.enumDefault.Load(); factory != nil {
			return Binding{Factory: *factory, Level: LevelDefault, Key: AliasEnum}, true
		}
	}
	kind := base.Kind()
	if kind != reflect.Slice && kind != reflect.Map && IsContainer(base) {
		// arrays and custom containers use the slice default unless their
		// own kind is registered
		if _, ok := r.kinds.Load(kind); !ok {
			kind = reflect.Slice
		}
	}
	if factory, ok := r.kinds.Load(kind); ok {
		return Binding{Factory: factory.(Factory), Level: LevelDefault, Key: kind.String()}, true
	}
	return Binding{}, false
}

// wrapperVariants returns t plus its primitive wrapper counterpart: *T for a
// primitive T and T for a pointer to a primitive.
func wrapperVariants(t reflect.Type) []reflect.Type {
	out := []reflect.Type{t}
	switch {
	case t.Kind() == reflect.Pointer && IsPrimitive(t.Elem()):
		out = append(out, t.Elem())
	case IsPrimitive(t):
		out = append(out, reflect.PointerTo(t))
	}
	return out
}

func aliasKeys(ctx Context) []string {
	var keys []string
	if ctx.DeclaringType != nil {
		declaring := derefType(ctx.DeclaringType)
		if qualified := qualifiedName(declaring); qualified != "" {
			keys = append(keys, qualified+"."+ctx.Property)
		}
		if declaring.Name() != "" {
			keys = append(keys, declaring.Name()+"."+ctx.Property)
		}
	}
	base := derefType(ctx.ValueType)
	if qualified := qualifiedName(base); qualified != "" {
		keys = append(keys, qualified)
	} else {
		keys = append(keys, base.String())
	}
	if base.Name() != "" {
		keys = append(keys, base.Name())
	}
	if semantic.IsEnum(base) {
		keys = append(keys, AliasEnum)
	}
	if IsPrimitive(base) {
		keys = append(keys, base.Kind().String())
	}
	return dedupe(keys)
}

// IsPrimitive reports whether t is a boolean, numeric or string kind.
func IsPrimitive(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func qualifiedName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

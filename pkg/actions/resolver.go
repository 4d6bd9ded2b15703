package actions

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Provider supplies actions for a surface.
type Provider interface {
	Actions(s Surface) []Descriptor
}

// Declarer is implemented by types that name their action provider type.
type Declarer interface {
	ActionProvider() reflect.Type
}

var (
	providerType = reflect.TypeOf((*Provider)(nil)).Elem()
	declarerType = reflect.TypeOf((*Declarer)(nil)).Elem()
)

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver resolves action providers per type. Safe for concurrent use.
type Resolver struct {
	declared sync.Map // reflect.Type -> reflect.Type
	logger   zerolog.Logger
}

// NewResolver constructs a resolver.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Declare records provider as the action provider of t, taking precedence
// over a Declarer implementation. The provider type is validated at
// resolution time.
func (r *Resolver) Declare(t, provider reflect.Type) {
	if t == nil || provider == nil {
		return
	}
	r.declared.Store(derefType(t), provider)
}

// ProviderType returns the provider declared for t.
func (r *Resolver) ProviderType(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if provider, ok := r.declared.Load(derefType(t)); ok {
		return provider.(reflect.Type), true
	}
	if provider := declaredBy(derefType(t)); provider != nil {
		return provider, true
	}
	return nil, false
}

// Resolve returns the provider supplied actions for t. Types without a
// provider yield an empty slice.
func (r *Resolver) Resolve(ctx context.Context, t reflect.Type, surface Surface) ([]Descriptor, error) {
	declared, ok := r.ProviderType(t)
	if !ok {
		return []Descriptor{}, nil
	}
	provider, err := r.instantiate(ctx, t, declared)
	if err != nil {
		r.logger.Warn().Err(err).Str("type", typeString(t)).Msg("action provider rejected")
		return nil, err
	}
	if surface.Type == nil {
		surface.Type = t
	}
	actions := provider.Actions(surface)
	out := make([]Descriptor, 0, len(actions))
	for _, action := range actions {
		if action != nil {
			out = append(out, action)
		}
	}
	r.logger.Debug().
		Str("type", typeString(t)).
		Str("provider", declared.String()).
		Int("actions", len(out)).
		Msg("actions resolved")
	return out, nil
}

// Collect resolves provider actions for t, appends attached and partitions
// the result by scope.
func (r *Resolver) Collect(ctx context.Context, t reflect.Type, surface Surface, attached ...Descriptor) (Set, error) {
	resolved, err := r.Resolve(ctx, t, surface)
	if err != nil {
		return Set{}, err
	}
	return Partition(append(resolved, attached...)), nil
}

func (r *Resolver) instantiate(ctx context.Context, t, declared reflect.Type) (Provider, error) {
	if container, ok := ContainerFrom(ctx); ok {
		if instance, found := container.Instance(declared); found {
			if provider, ok := instance.(Provider); ok {
				return provider, nil
			}
			return nil, &ProviderTypeError{Type: t, Provider: declared}
		}
	}

	switch {
	case declared.Kind() == reflect.Interface:
		return nil, &ProviderTypeError{Type: t, Provider: declared}
	case declared.Kind() == reflect.Pointer && declared.Implements(providerType):
		return reflect.New(declared.Elem()).Interface().(Provider), nil
	case declared.Kind() != reflect.Pointer && declared.Implements(providerType):
		return reflect.New(declared).Elem().Interface().(Provider), nil
	case declared.Kind() != reflect.Pointer && reflect.PointerTo(declared).Implements(providerType):
		return reflect.New(declared).Interface().(Provider), nil
	default:
		return nil, &ProviderTypeError{Type: t, Provider: declared}
	}
}

func declaredBy(t reflect.Type) reflect.Type {
	switch {
	case t.Kind() == reflect.Interface:
		return nil
	case t.Implements(declarerType):
		return reflect.Zero(t).Interface().(Declarer).ActionProvider()
	case reflect.PointerTo(t).Implements(declarerType):
		return reflect.New(t).Interface().(Declarer).ActionProvider()
	default:
		return nil
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

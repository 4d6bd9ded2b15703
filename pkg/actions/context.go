package actions

import (
	"context"
	"reflect"
)

// Surface is the context handed to providers: the type shown, the selected
// records and a callback that refreshes the surface.
type Surface struct {
	Type     reflect.Type
	Selected []any
	Refresh  func()
}

// Current returns the single selected record, if exactly one is selected.
func (s Surface) Current() (any, bool) {
	if len(s.Selected) != 1 {
		return nil, false
	}
	return s.Selected[0], true
}

// Reload calls Refresh when set.
func (s Surface) Reload() {
	if s.Refresh != nil {
		s.Refresh()
	}
}

// Container is a host dependency-injection container able to supply
// provider instances.
type Container interface {
	Instance(t reflect.Type) (any, bool)
}

// ContainerFunc adapts a function into a Container.
type ContainerFunc func(t reflect.Type) (any, bool)

// Instance calls the underlying function.
func (fn ContainerFunc) Instance(t reflect.Type) (any, bool) {
	return fn(t)
}

type containerKey struct{}

// WithContainer returns a context whose resolutions consult c first.
func WithContainer(ctx context.Context, c Container) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, containerKey{}, c)
}

// ContainerFrom returns the container carried by ctx.
func ContainerFrom(ctx context.Context) (Container, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(containerKey{}).(Container)
	return c, ok && c != nil
}

package actions

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Scope partitions actions by what they operate on.
type Scope int

const (
	ScopeToolbar Scope = iota + 1
	ScopeItem
	ScopeSelection
)

func (s Scope) String() string {
	switch s {
	case ScopeToolbar:
		return "toolbar"
	case ScopeItem:
		return "item"
	case ScopeSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Descriptor is implemented only by Toolbar, Item and Selection.
type Descriptor interface {
	ID() string
	Scope() Scope
	Label() string
	Tooltip() string
	Icon() string
	descriptor()
}

type base struct {
	id      string
	label   string
	tooltip string
	icon    string
}

func newBase(label string) base {
	return base{id: uuid.NewString(), label: strings.TrimSpace(label)}
}

// ID returns the action identifier, unique per constructed action.
func (b base) ID() string { return b.id }

// Label returns the label text key.
func (b base) Label() string { return b.label }

// Tooltip returns the tooltip text key, if any.
func (b base) Tooltip() string { return b.tooltip }

// Icon returns sanitised SVG markup, if any.
func (b base) Icon() string { return b.icon }

func (base) descriptor() {}

// Toolbar is a context-free action.
type Toolbar struct {
	base
	enabled func() bool
	handler func(context.Context) error
}

// NewToolbar builds a toolbar action.
func NewToolbar(label string, handler func(context.Context) error) Toolbar {
	return Toolbar{base: newBase(label), handler: handler}
}

// Scope returns ScopeToolbar.
func (Toolbar) Scope() Scope { return ScopeToolbar }

// WithID returns a copy with a fixed identifier.
func (a Toolbar) WithID(id string) Toolbar { a.id = id; return a }

// WithTooltip returns a copy with the tooltip key set.
func (a Toolbar) WithTooltip(key string) Toolbar { a.tooltip = strings.TrimSpace(key); return a }

// WithIcon returns a copy carrying the sanitised icon markup.
func (a Toolbar) WithIcon(svg string) Toolbar { a.icon = sanitizeIconMarkup(svg); return a }

// EnabledWhen returns a copy guarded by fn.
func (a Toolbar) EnabledWhen(fn func() bool) Toolbar { a.enabled = fn; return a }

// Enabled reports whether the action can run.
func (a Toolbar) Enabled() bool {
	return a.enabled == nil || a.enabled()
}

// Run invokes the handler when enabled.
func (a Toolbar) Run(ctx context.Context) error {
	if !a.Enabled() {
		return ErrDisabled
	}
	if a.handler == nil {
		return nil
	}
	return a.handler(ctx)
}

// Item is an action on a single record.
type Item struct {
	base
	enabled func(item any) bool
	handler func(ctx context.Context, item any) error
}

// NewItem builds an item action.
func NewItem(label string, handler func(ctx context.Context, item any) error) Item {
	return Item{base: newBase(label), handler: handler}
}

// ItemFor builds an item action whose handler receives T. Items of another
// type fail with ErrItemType.
func ItemFor[T any](label string, handler func(ctx context.Context, item T) error) Item {
	return NewItem(label, func(ctx context.Context, item any) error {
		typed, ok := item.(T)
		if !ok {
			return ErrItemType
		}
		return handler(ctx, typed)
	})
}

// Scope returns ScopeItem.
func (Item) Scope() Scope { return ScopeItem }

// WithID returns a copy with a fixed identifier.
func (a Item) WithID(id string) Item { a.id = id; return a }

// WithTooltip returns a copy with the tooltip key set.
func (a Item) WithTooltip(key string) Item { a.tooltip = strings.TrimSpace(key); return a }

// WithIcon returns a copy carrying the sanitised icon markup.
func (a Item) WithIcon(svg string) Item { a.icon = sanitizeIconMarkup(svg); return a }

// EnabledWhen returns a copy guarded by fn.
func (a Item) EnabledWhen(fn func(item any) bool) Item { a.enabled = fn; return a }

// Enabled reports whether the action can run for item. A nil item is never
// enabled.
func (a Item) Enabled(item any) bool {
	if item == nil {
		return false
	}
	return a.enabled == nil || a.enabled(item)
}

// Run invokes the handler when enabled for item.
func (a Item) Run(ctx context.Context, item any) error {
	if !a.Enabled(item) {
		return ErrDisabled
	}
	if a.handler == nil {
		return nil
	}
	return a.handler(ctx, item)
}

// Selection is an action on the selected records.
type Selection struct {
	base
	enabled func(items []any) bool
	handler func(ctx context.Context, items []any) error
}

// NewSelection builds a selection action.
func NewSelection(label string, handler func(ctx context.Context, items []any) error) Selection {
	return Selection{base: newBase(label), handler: handler}
}

// Scope returns ScopeSelection.
func (Selection) Scope() Scope { return ScopeSelection }

// WithID returns a copy with a fixed identifier.
func (a Selection) WithID(id string) Selection { a.id = id; return a }

// WithTooltip returns a copy with the tooltip key set.
func (a Selection) WithTooltip(key string) Selection { a.tooltip = strings.TrimSpace(key); return a }

// WithIcon returns a copy carrying the sanitised icon markup.
func (a Selection) WithIcon(svg string) Selection { a.icon = sanitizeIconMarkup(svg); return a }

// EnabledWhen returns a copy guarded by fn.
func (a Selection) EnabledWhen(fn func(items []any) bool) Selection { a.enabled = fn; return a }

// Enabled reports whether the action can run for items. An empty selection
// is never enabled.
func (a Selection) Enabled(items []any) bool {
	if len(items) == 0 {
		return false
	}
	return a.enabled == nil || a.enabled(items)
}

// Run invokes the handler when enabled for items.
func (a Selection) Run(ctx context.Context, items []any) error {
	if !a.Enabled(items) {
		return ErrDisabled
	}
	if a.handler == nil {
		return nil
	}
	return a.handler(ctx, items)
}

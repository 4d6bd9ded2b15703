package scaffold

import (
	"context"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/internal/introspect"
	"github.com/goliatone/go-crudmeta/pkg/actions"
	"github.com/goliatone/go-crudmeta/pkg/components"
	"github.com/goliatone/go-crudmeta/pkg/model"
	"github.com/goliatone/go-crudmeta/pkg/overrides"
	"github.com/goliatone/go-crudmeta/pkg/semantic"
	"github.com/goliatone/go-crudmeta/pkg/text"
)

// ScopePrefix prefixes the per-type text scope ("crud.user").
const ScopePrefix = "crud"

// Option configures a Builder.
type Option func(*Builder)

// WithCache shares a semantic model cache.
func WithCache(cache *semantic.Cache) Option {
	return func(b *Builder) {
		if cache != nil {
			b.cache = cache
		}
	}
}

// WithRegistry sets the component registry.
func WithRegistry(registry *components.Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithText sets the text resolver. Without one every label renders as its
// key (or through the labeler).
func WithText(resolver *text.Resolver) Option {
	return func(b *Builder) {
		b.text = resolver
	}
}

// WithActions sets the action resolver used by Actions.
func WithActions(resolver *actions.Resolver) Option {
	return func(b *Builder) {
		if resolver != nil {
			b.actions = resolver
		}
	}
}

// WithLabeler humanizes unresolved labels whose key is still the default
// property name. Explicit label and tooltip keys render as the key itself.
func WithLabeler(labeler func(string) string) Option {
	return func(b *Builder) {
		b.labeler = labeler
	}
}

// WithDecorators appends form decorators run after each Form build.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(b *Builder) {
		b.decorators = append(b.decorators, decorators...)
	}
}

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder produces forms, grids and action bars. It is safe for concurrent
// use once constructed.
type Builder struct {
	cache      *semantic.Cache
	registry   *components.Registry
	text       *text.Resolver
	actions    *actions.Resolver
	labeler    func(string) string
	decorators []model.Decorator
	logger     zerolog.Logger
}

// New constructs a builder with a private cache, default registry and action
// resolver.
func New(options ...Option) *Builder {
	b := &Builder{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.cache == nil {
		b.cache = semantic.NewCache(semantic.WithLogger(b.logger))
	}
	if b.registry == nil {
		b.registry = components.NewRegistry(components.WithLogger(b.logger))
	}
	if b.actions == nil {
		b.actions = actions.NewResolver(actions.WithLogger(b.logger))
	}
	return b
}

// Model returns the cached semantic model for t.
func (b *Builder) Model(t reflect.Type) (*semantic.Model, error) {
	return b.cache.Model(t)
}

// Form builds the form for t with set applied.
func (b *Builder) Form(t reflect.Type, set *overrides.Set, locale string) (model.FormModel, error) {
	sem, res, err := b.prepare(t, set)
	if err != nil {
		return model.FormModel{}, err
	}
	configs := res.Visible()

	labels := b.scope(sem)
	form := model.FormModel{
		Type:   sem.Name(),
		Locale: locale,
		Fields: make([]model.Field, 0, len(configs)),
		Metadata: map[string]string{
			"variant": string(sem.Variant()),
		},
	}
	if title, ok := b.resolve(labels, "title", locale); ok {
		form.Title = title
	}
	if id, ok := sem.Identity(); ok {
		form.Metadata["identity"] = id.Name
	}
	if version, ok := sem.Version(); ok {
		form.Metadata["version"] = version.Name
	}

	for _, cfg := range configs {
		field, err := b.field(sem, cfg, labels, locale)
		if err != nil {
			return model.FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}

	for _, decorator := range b.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			return model.FormModel{}, fmt.Errorf("scaffold: decorate %s: %w", sem.Name(), err)
		}
	}
	b.logger.Debug().Str("type", sem.Name()).Int("fields", len(form.Fields)).Str("locale", locale).Msg("form built")
	return form, nil
}

// Grid builds the grid for t with set applied.
func (b *Builder) Grid(t reflect.Type, set *overrides.Set, locale string) (model.Grid, error) {
	sem, res, err := b.prepare(t, set)
	if err != nil {
		return model.Grid{}, err
	}
	configs := res.Visible()
	labels := b.scope(sem)
	grid := model.Grid{
		Type:    sem.Name(),
		Locale:  locale,
		Columns: make([]model.Column, 0, len(configs)),
	}
	for _, cfg := range configs {
		prop := cfg.Property()
		comp, err := b.registry.Component(components.NewContext(sem.Type(), prop))
		if err != nil {
			return model.Grid{}, fmt.Errorf("scaffold: grid %s: %w", sem.Name(), err)
		}
		label, labelKey := b.label(labels, cfg, locale)
		grid.Columns = append(grid.Columns, model.Column{
			Name:      prop.Name,
			Type:      model.FieldTypeFor(prop.Type),
			Component: comp.Name,
			Label:     label,
			LabelKey:  labelKey,
			Sortable:  sortable(prop.Type),
			Order:     prop.Order,
		})
	}
	for _, cfg := range res.All() {
		if !cfg.IsVisible() {
			grid.Hidden = append(grid.Hidden, cfg.Name())
		}
	}
	return grid, nil
}

// Actions resolves the actions of t for surface, resolving their labels.
func (b *Builder) Actions(ctx context.Context, t reflect.Type, surface actions.Surface, locale string, attached ...actions.Descriptor) (model.ActionBar, error) {
	sem, err := b.cache.Model(t)
	if err != nil {
		return model.ActionBar{}, err
	}
	set, err := b.actions.Collect(ctx, sem.Type(), surface, attached...)
	if err != nil {
		return model.ActionBar{}, err
	}
	labels := b.scope(sem)
	var bar model.ActionBar
	for _, d := range set.All() {
		action := model.Action{
			ID:       d.ID(),
			Scope:    d.Scope().String(),
			LabelKey: d.Label(),
			Label:    b.display(labels, d.Label(), locale),
			Icon:     d.Icon(),
		}
		if key := d.Tooltip(); key != "" {
			action.Tooltip = b.display(labels, key, locale)
		}
		switch d.Scope() {
		case actions.ScopeToolbar:
			bar.Toolbar = append(bar.Toolbar, action)
		case actions.ScopeItem:
			bar.Item = append(bar.Item, action)
		case actions.ScopeSelection:
			bar.Selection = append(bar.Selection, action)
		}
	}
	return bar, nil
}

// FormOf builds the form for T.
func FormOf[T any](b *Builder, set *overrides.Set, locale string) (model.FormModel, error) {
	return b.Form(reflect.TypeOf((*T)(nil)).Elem(), set, locale)
}

// GridOf builds the grid for T.
func GridOf[T any](b *Builder, set *overrides.Set, locale string) (model.Grid, error) {
	return b.Grid(reflect.TypeOf((*T)(nil)).Elem(), set, locale)
}

func (b *Builder) prepare(t reflect.Type, set *overrides.Set) (*semantic.Model, *overrides.Result, error) {
	sem, err := b.cache.Model(t)
	if err != nil {
		return nil, nil, err
	}
	res, err := set.Build(sem)
	if err != nil {
		return nil, nil, err
	}
	return sem, res, nil
}

func (b *Builder) field(sem *semantic.Model, cfg *overrides.Config, labels *text.Resolver, locale string) (model.Field, error) {
	prop := cfg.Property()
	comp, err := b.registry.Component(components.NewContext(sem.Type(), prop))
	if err != nil {
		return model.Field{}, fmt.Errorf("scaffold: form %s: %w", sem.Name(), err)
	}

	label, labelKey := b.label(labels, cfg, locale)
	field := model.Field{
		Name:      prop.Name,
		Type:      model.FieldTypeFor(prop.Type),
		Component: comp.Name,
		Required:  cfg.IsRequired(),
		ReadOnly:  prop.ReadOnly || !prop.Writable || cfg.ForcedReadOnly(),
		Label:     label,
		LabelKey:  labelKey,
		Order:     prop.Order,
		Enum:      comp.Enum,
		Metadata:  map[string]string{},
	}
	if key := cfg.TooltipKey(); key != "" {
		field.TooltipKey = key
		if cfg.HasTooltipOverride() {
			field.Tooltip = b.display(labels, key, locale)
		} else if tooltip, ok := b.resolve(labels, key, locale); ok {
			field.Tooltip = tooltip
		}
	}
	if cfg.HasRequiredOverride() && cfg.IsRequired() {
		field.Metadata[model.MetadataRequiredIndicator] = "true"
	}
	if prop.PermissionKey != "" {
		field.Metadata[model.MetadataPermission] = prop.PermissionKey
	}
	if prop.Technical {
		field.Metadata[model.MetadataTechnical] = "true"
	}
	if cfg.ForcedReadOnly() {
		field.Metadata[model.MetadataForcedReadOnly] = "true"
	}
	if comp.ElementType != nil {
		field.Metadata[model.MetadataElementType] = comp.ElementType.String()
	}
	if len(comp.Options) > 0 {
		field.UIHints = make(map[string]string, len(comp.Options))
		for k, v := range comp.Options {
			field.UIHints[k] = v
		}
	}
	if len(field.Metadata) == 0 {
		field.Metadata = nil
	}
	return field, nil
}

func (b *Builder) label(labels *text.Resolver, cfg *overrides.Config, locale string) (string, string) {
	key := cfg.LabelKey()
	if label, ok := b.resolve(labels, key, locale); ok {
		return label, key
	}
	if b.labeler != nil && !cfg.HasLabelOverride() && key == cfg.Name() {
		return b.labeler(key), key
	}
	return key, key
}

func (b *Builder) display(labels *text.Resolver, key, locale string) string {
	if value, ok := b.resolve(labels, key, locale); ok {
		return value
	}
	return key
}

func (b *Builder) resolve(labels *text.Resolver, key, locale string) (string, bool) {
	if labels == nil {
		return "", false
	}
	return labels.Resolve(key, locale)
}

// scope returns the text resolver scoped to the type ("crud.user").
func (b *Builder) scope(sem *semantic.Model) *text.Resolver {
	if b.text == nil {
		return nil
	}
	return b.text.Scoped(ScopePrefix + "." + introspect.LowerCamel(sem.Name()))
}

func sortable(t reflect.Type) bool {
	if components.IsPrimitive(t) {
		return true
	}
	switch model.FieldTypeFor(t) {
	case model.FieldTypeDateTime, model.FieldTypeString, model.FieldTypeInteger, model.FieldTypeNumber, model.FieldTypeBoolean:
		return !components.IsContainer(t)
	}
	return false
}

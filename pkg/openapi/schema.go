package openapi

import (
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/pkg/overrides"
	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

const (
	// ExtensionKey names the schema extension carrying crud semantics.
	ExtensionKey = "x-crud"
	// Version is the OpenAPI version stamped on generated documents.
	Version = "3.0.3"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	durationType      = reflect.TypeOf(time.Duration(0))
	bytesType         = reflect.TypeOf([]byte(nil))
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithCache resolves nested struct properties through cache. Without a cache
// nested structs export as free-form objects.
func WithCache(cache *semantic.Cache) Option {
	return func(e *Exporter) {
		e.cache = cache
	}
}

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// Exporter converts semantic models to OpenAPI schemas.
type Exporter struct {
	cache  *semantic.Cache
	logger zerolog.Logger
}

// NewExporter constructs an exporter.
func NewExporter(options ...Option) *Exporter {
	e := &Exporter{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Schema converts m with a default exporter.
func Schema(m *semantic.Model) *openapi3.Schema {
	return NewExporter().Schema(m)
}

// Components converts models with a default exporter.
func Components(models ...*semantic.Model) openapi3.Schemas {
	return NewExporter().Components(models...)
}

// Schema converts m into an object schema keyed by semantic property names.
func (e *Exporter) Schema(m *semantic.Model) *openapi3.Schema {
	if m == nil {
		return openapi3.NewObjectSchema()
	}
	return e.model(m, nil, map[reflect.Type]bool{m.Type(): true})
}

// Overridden converts m after applying set. Label and tooltip keys, visibility
// and requiredness follow the configured overrides.
func (e *Exporter) Overridden(m *semantic.Model, set *overrides.Set) (*openapi3.Schema, error) {
	if m == nil {
		return nil, fmt.Errorf("openapi: nil model")
	}
	res, err := set.Build(m)
	if err != nil {
		return nil, fmt.Errorf("openapi: %s: %w", m.Name(), err)
	}
	return e.model(m, res, map[reflect.Type]bool{m.Type(): true}), nil
}

// Components converts every model into a named schema map suitable for
// openapi3.Components.Schemas. Later models replace earlier ones with the same
// type name.
func (e *Exporter) Components(models ...*semantic.Model) openapi3.Schemas {
	out := make(openapi3.Schemas, len(models))
	for _, m := range models {
		if m == nil {
			continue
		}
		if _, exists := out[m.Name()]; exists {
			e.logger.Warn().Str("type", m.Name()).Msg("duplicate component schema replaced")
		}
		out[m.Name()] = e.Schema(m).NewRef()
	}
	return out
}

// Document wraps the component schemas of models in a minimal OpenAPI
// document and validates it.
func (e *Exporter) Document(ctx context.Context, title, version string, models ...*semantic.Model) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: e.Components(models...),
		},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// Values reads every property of instance into a JSON-compatible map keyed by
// semantic property name.
func Values(m *semantic.Model, instance any) (map[string]any, error) {
	out := make(map[string]any, len(m.Properties()))
	for _, prop := range m.Properties() {
		value, err := m.Read(prop, instance)
		if err != nil {
			return nil, err
		}
		out[prop.Name] = value
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode %s: %w", m.Name(), err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("openapi: decode %s: %w", m.Name(), err)
	}
	return normalized, nil
}

// Validate checks instance against the schema exported for m.
func (e *Exporter) Validate(m *semantic.Model, instance any) error {
	values, err := Values(m, instance)
	if err != nil {
		return err
	}
	if err := e.Schema(m).VisitJSON(values); err != nil {
		return fmt.Errorf("openapi: %s: %w", m.Name(), err)
	}
	return nil
}

func (e *Exporter) model(m *semantic.Model, res *overrides.Result, visiting map[reflect.Type]bool) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	var required []string
	for _, prop := range m.Properties() {
		ext := propertyExtension(prop)
		readOnly := prop.ReadOnly || prop.Technical || !prop.Writable
		isRequired := prop.Required
		if res != nil {
			if cfg, ok := res.Config(prop.Name); ok {
				ext["labelKey"] = cfg.LabelKey()
				if cfg.TooltipKey() != "" {
					ext["tooltipKey"] = cfg.TooltipKey()
				}
				delete(ext, "hidden")
				if !cfg.IsVisible() {
					ext["hidden"] = true
				}
				isRequired = cfg.IsRequired()
				readOnly = readOnly || cfg.ForcedReadOnly()
			}
		}

		ps := e.typeSchema(prop.Type, visiting)
		ps.ReadOnly = readOnly
		ps.Extensions = map[string]any{ExtensionKey: ext}
		schema.Properties[prop.Name] = ps.NewRef()
		if isRequired {
			required = append(required, prop.Name)
		}
	}
	schema.Required = required

	ext := map[string]any{
		"type":    m.Name(),
		"variant": string(m.Variant()),
	}
	var order []string
	if res != nil {
		for _, cfg := range res.Visible() {
			order = append(order, cfg.Name())
		}
	} else {
		for _, prop := range m.Visible() {
			order = append(order, prop.Name)
		}
	}
	ext["order"] = order
	if id, ok := m.Identity(); ok {
		ext["identity"] = id.Name
	}
	if version, ok := m.Version(); ok {
		ext["version"] = version.Name
	}
	schema.Extensions = map[string]any{ExtensionKey: ext}
	return schema
}

func propertyExtension(prop semantic.Property) map[string]any {
	ext := map[string]any{"labelKey": prop.LabelKey}
	if prop.TooltipKey != "" {
		ext["tooltipKey"] = prop.TooltipKey
	}
	if prop.PermissionKey != "" {
		ext["permission"] = prop.PermissionKey
	}
	if prop.HasOrder() {
		ext["order"] = prop.Order
	}
	if prop.Technical {
		ext["technical"] = true
	}
	if prop.Hidden {
		ext["hidden"] = true
	}
	return ext
}

func (e *Exporter) typeSchema(t reflect.Type, visiting map[reflect.Type]bool) *openapi3.Schema {
	if t == nil {
		return &openapi3.Schema{}
	}
	if t.Kind() == reflect.Pointer {
		return e.typeSchema(t.Elem(), visiting).WithNullable()
	}

	switch t {
	case timeType:
		return openapi3.NewDateTimeSchema()
	case durationType:
		return openapi3.NewInt64Schema()
	case bytesType:
		return openapi3.NewBytesSchema()
	}

	if values, ok := semantic.EnumValues(t); ok && t.Kind() == reflect.String {
		enum := make([]any, 0, len(values))
		for _, v := range values {
			enum = append(enum, v)
		}
		return openapi3.NewStringSchema().WithEnum(enum...)
	}

	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema()
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return openapi3.NewInt32Schema()
	case reflect.Int, reflect.Int64:
		return openapi3.NewInt64Schema()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0)
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.Slice, reflect.Array:
		return openapi3.NewArraySchema().WithItems(e.typeSchema(t.Elem(), visiting))
	case reflect.Map:
		return openapi3.NewObjectSchema().WithAdditionalProperties(e.typeSchema(t.Elem(), visiting))
	case reflect.Interface:
		return &openapi3.Schema{}
	}

	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return openapi3.NewStringSchema()
	}
	if t.Kind() == reflect.Struct {
		return e.nested(t, visiting)
	}
	return &openapi3.Schema{}
}

func (e *Exporter) nested(t reflect.Type, visiting map[reflect.Type]bool) *openapi3.Schema {
	if e.cache == nil || visiting[t] {
		return openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	}
	m, err := e.cache.Model(t)
	if err != nil {
		e.logger.Warn().Err(err).Str("type", t.String()).Msg("nested schema exported as free-form object")
		return openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	}
	visiting[t] = true
	defer delete(visiting, t)
	return e.model(m, nil, visiting)
}

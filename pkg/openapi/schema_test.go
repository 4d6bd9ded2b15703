package openapi_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudmeta/pkg/openapi"
	"github.com/goliatone/go-crudmeta/pkg/overrides"
	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

type Status string

func (Status) EnumValues() []string { return []string{"active", "disabled"} }

type Address struct {
	Street string `crud:"required"`
	City   string
}

type Member struct {
	ID      int64          `crud:"id"`
	Version int            `crud:"version"`
	Name    string         `crud:"required,order=1"`
	Email   string         `crud:"label=member.email,perm=members.email,tooltip=member.email.help"`
	Status  Status         `crud:"readonly"`
	Tags    []string       `crud:"order=2"`
	Limits  map[string]int `crud:"hidden"`
	Score   *float64
	Visits  uint
	Joined  time.Time
	Home    Address
	Mentor  *Member
	Avatar  []byte
	Extra   map[string]any
}

func mustModel(t *testing.T, cache *semantic.Cache) *semantic.Model {
	t.Helper()
	m, err := semantic.Of[Member](cache)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func crudExt(t *testing.T, s *openapi3.Schema) map[string]any {
	t.Helper()
	ext, ok := s.Extensions[openapi.ExtensionKey].(map[string]any)
	if !ok {
		t.Fatalf("missing %s extension on %+v", openapi.ExtensionKey, s)
	}
	return ext
}

func prop(t *testing.T, s *openapi3.Schema, name string) *openapi3.Schema {
	t.Helper()
	ref, ok := s.Properties[name]
	if !ok || ref.Value == nil {
		t.Fatalf("property %q not exported", name)
	}
	return ref.Value
}

func TestSchema_PropertyTypes(t *testing.T) {
	schema := openapi.NewExporter(openapi.WithCache(semantic.NewCache())).Schema(mustModel(t, semantic.NewCache()))

	cases := []struct {
		name   string
		typ    string
		format string
	}{
		{name: "id", typ: openapi3.TypeInteger, format: "int64"},
		{name: "version", typ: openapi3.TypeInteger, format: "int64"},
		{name: "name", typ: openapi3.TypeString},
		{name: "tags", typ: openapi3.TypeArray},
		{name: "limits", typ: openapi3.TypeObject},
		{name: "score", typ: openapi3.TypeNumber},
		{name: "visits", typ: openapi3.TypeInteger},
		{name: "joined", typ: openapi3.TypeString, format: "date-time"},
		{name: "home", typ: openapi3.TypeObject},
		{name: "avatar", typ: openapi3.TypeString, format: "byte"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := prop(t, schema, tc.name)
			if !p.Type.Is(tc.typ) {
				t.Fatalf("want type %s, got %v", tc.typ, p.Type)
			}
			if p.Format != tc.format {
				t.Fatalf("want format %q, got %q", tc.format, p.Format)
			}
		})
	}

	if !prop(t, schema, "score").Nullable {
		t.Fatalf("pointer property must be nullable")
	}
	if tags := prop(t, schema, "tags"); tags.Items == nil || !tags.Items.Value.Type.Is(openapi3.TypeString) {
		t.Fatalf("expected string items, got %+v", tags.Items)
	}
	if min := prop(t, schema, "visits").Min; min == nil || *min != 0 {
		t.Fatalf("unsigned property must have minimum 0")
	}
	status := prop(t, schema, "status")
	if diff := cmp.Diff([]any{"active", "disabled"}, status.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_RequiredReadOnlyAndExtensions(t *testing.T) {
	schema := openapi.Schema(mustModel(t, semantic.NewCache()))

	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if !prop(t, schema, "id").ReadOnly || !prop(t, schema, "status").ReadOnly {
		t.Fatalf("technical and readonly properties must export readOnly")
	}
	if prop(t, schema, "name").ReadOnly {
		t.Fatalf("plain property must stay writable")
	}

	email := crudExt(t, prop(t, schema, "email"))
	want := map[string]any{
		"labelKey":   "member.email",
		"tooltipKey": "member.email.help",
		"permission": "members.email",
	}
	if diff := cmp.Diff(want, email); diff != "" {
		t.Fatalf("email extension mismatch (-want +got):\n%s", diff)
	}
	id := crudExt(t, prop(t, schema, "id"))
	if id["technical"] != true || id["hidden"] != true {
		t.Fatalf("identity extension must mark technical and hidden: %v", id)
	}
	if crudExt(t, prop(t, schema, "name"))["order"] != 1 {
		t.Fatalf("explicit order must be exported")
	}

	root := crudExt(t, schema)
	if root["identity"] != "id" || root["version"] != "version" || root["variant"] != string(semantic.VariantPlain) {
		t.Fatalf("unexpected model extension: %v", root)
	}
	order, _ := root["order"].([]string)
	if len(order) < 2 || order[0] != "name" || order[1] != "tags" {
		t.Fatalf("visible order must start with ordered properties, got %v", order)
	}
}

func TestSchema_NestedStructsAndRecursion(t *testing.T) {
	cache := semantic.NewCache()
	schema := openapi.NewExporter(openapi.WithCache(cache)).Schema(mustModel(t, cache))

	home := prop(t, schema, "home")
	if _, ok := home.Properties["street"]; !ok {
		t.Fatalf("nested struct must export its properties, got %+v", home.Properties)
	}
	if diff := cmp.Diff([]string{"street"}, home.Required); diff != "" {
		t.Fatalf("nested required mismatch (-want +got):\n%s", diff)
	}

	mentor := prop(t, schema, "mentor")
	if !mentor.Nullable || len(mentor.Properties) != 0 {
		t.Fatalf("recursive reference must collapse to a nullable free-form object: %+v", mentor)
	}

	plain := openapi.Schema(mustModel(t, cache))
	if len(prop(t, plain, "home").Properties) != 0 {
		t.Fatalf("without a cache nested structs are free-form")
	}
}

func TestExporter_Overridden(t *testing.T) {
	set := overrides.NewSet().
		Override("email", func(c *overrides.Config) { c.Label("custom.email").Required(true) }).
		Override("name", func(c *overrides.Config) { c.Hidden() }).
		Override("id", func(c *overrides.Config) { c.Visible(true) })

	schema, err := openapi.NewExporter().Overridden(mustModel(t, semantic.NewCache()), set)
	if err != nil {
		t.Fatalf("overridden: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "email"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if got := crudExt(t, prop(t, schema, "email"))["labelKey"]; got != "custom.email" {
		t.Fatalf("label override not exported, got %v", got)
	}
	if crudExt(t, prop(t, schema, "name"))["hidden"] != true {
		t.Fatalf("hidden override not exported")
	}
	if _, hidden := crudExt(t, prop(t, schema, "id"))["hidden"]; hidden {
		t.Fatalf("visibility override must clear hidden marker")
	}

	bad := overrides.NewSet().Override("missing", func(c *overrides.Config) { c.Hidden() })
	if _, err := openapi.NewExporter().Overridden(mustModel(t, semantic.NewCache()), bad); !errors.Is(err, overrides.ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestExporter_DocumentValidates(t *testing.T) {
	cache := semantic.NewCache()
	member := mustModel(t, cache)
	address, err := cache.Model(reflect.TypeOf(Address{}))
	if err != nil {
		t.Fatalf("address model: %v", err)
	}

	doc, err := openapi.NewExporter(openapi.WithCache(cache)).Document(context.Background(), "crud", "1.0.0", member, address)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.OpenAPI != openapi.Version {
		t.Fatalf("unexpected version %q", doc.OpenAPI)
	}
	for _, name := range []string{"Member", "Address"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Fatalf("component %s missing", name)
		}
	}

	if _, err := openapi.NewExporter().Document(context.Background(), "", "1.0.0", member); err == nil {
		t.Fatalf("expected validation failure for a missing title")
	}
}

func TestExporter_ValidateInstance(t *testing.T) {
	type Ticket struct {
		ID     int64  `crud:"id"`
		Title  string `crud:"required"`
		Status Status
		Points uint
	}
	cache := semantic.NewCache()
	m, err := semantic.Of[Ticket](cache)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	exporter := openapi.NewExporter()

	if err := exporter.Validate(m, &Ticket{ID: 1, Title: "Fix login", Status: "active", Points: 3}); err != nil {
		t.Fatalf("valid ticket rejected: %v", err)
	}
	if err := exporter.Validate(m, Ticket{Title: "x", Status: "archived"}); err == nil {
		t.Fatalf("expected enum violation")
	}

	values, err := openapi.Values(m, Ticket{ID: 7, Title: "t", Status: "disabled"})
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := map[string]any{"id": float64(7), "title": "t", "status": "disabled", "points": float64(0)}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

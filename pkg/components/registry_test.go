package components_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudmeta/pkg/components"
)

type Status string

func (Status) EnumValues() []string { return []string{"active", "disabled"} }

type Address struct {
	Street string
}

type Code struct{ v string }

func (c Code) MarshalText() ([]byte, error) { return []byte(c.v), nil }

type Bag struct{}

func (Bag) ElementType() reflect.Type { return nil }

type Tags struct{}

func (*Tags) ElementType() reflect.Type { return reflect.TypeOf("") }

type Matrix struct{}

func (Matrix) ElementType() reflect.Type { return reflect.TypeOf([]int(nil)) }

type User struct {
	Email string
	Name  string
}

var userType = reflect.TypeOf(User{})

func resolveName(t *testing.T, reg *components.Registry, ctx components.Context) string {
	t.Helper()
	comp, err := reg.Component(ctx)
	if err != nil {
		t.Fatalf("resolve %s: %v", ctx.Property, err)
	}
	return comp.Name
}

func TestResolve_PropertyOverrideBeatsTypeOverride(t *testing.T) {
	reg := components.NewRegistry()
	reg.OverrideByType(reflect.TypeOf(""), components.Named("typed", nil))
	reg.OverrideByProperty(userType, "email", components.Named("email-input", nil))

	binding, err := reg.Resolve(components.ForField(userType, "email", reflect.TypeOf("")))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if binding.Level != components.LevelProperty {
		t.Fatalf("expected property level, got %s", binding.Level)
	}
	if got := binding.Create(components.ForField(userType, "email", reflect.TypeOf(""))).Name; got != "email-input" {
		t.Fatalf("expected property binding, got %q", got)
	}
	if got := resolveName(t, reg, components.ForField(userType, "name", reflect.TypeOf(""))); got != "typed" {
		t.Fatalf("expected type binding for name, got %q", got)
	}
}

func TestResolve_PropertyOverrideAcceptsPointerDeclaringType(t *testing.T) {
	reg := components.NewRegistry()
	reg.OverrideByProperty(reflect.TypeOf(&User{}), "email", components.Named("email-input", nil))
	if got := resolveName(t, reg, components.ForField(userType, "email", reflect.TypeOf(""))); got != "email-input" {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_TypeOverrideMatchesPrimitiveWrapper(t *testing.T) {
	cases := []struct {
		name       string
		registered reflect.Type
		declared   reflect.Type
	}{
		{name: "pointer declared, value registered", registered: reflect.TypeOf(0), declared: reflect.TypeOf((*int)(nil))},
		{name: "value declared, pointer registered", registered: reflect.TypeOf((*bool)(nil)), declared: reflect.TypeOf(false)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			reg := components.NewRegistry()
			reg.OverrideByType(tc.registered, components.Named("wrapped", nil))
			binding, err := reg.Resolve(components.ForField(userType, "x", tc.declared))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if binding.Level != components.LevelType {
				t.Fatalf("expected type level, got %s", binding.Level)
			}
		})
	}
}

func TestResolve_AliasKeyOrder(t *testing.T) {
	qualified := userType.PkgPath() + ".User.email"
	statusQualified := reflect.TypeOf(Status("")).PkgPath() + ".Status"

	cases := []struct {
		name     string
		aliases  map[string]string
		property string
		declared reflect.Type
		wantKey  string
	}{
		{
			name:     "qualified property key first",
			aliases:  map[string]string{qualified: "a", "User.email": "b", "string": "c"},
			property: "email",
			declared: reflect.TypeOf(""),
			wantKey:  qualified,
		},
		{
			name:     "simple property key",
			aliases:  map[string]string{"User.email": "b", "string": "c"},
			property: "email",
			declared: reflect.TypeOf(""),
			wantKey:  "User.email",
		},
		{
			name:     "qualified value type",
			aliases:  map[string]string{statusQualified: "a", "Status": "b", "Enum": "c"},
			property: "status",
			declared: reflect.TypeOf(Status("")),
			wantKey:  statusQualified,
		},
		{
			name:     "simple value type",
			aliases:  map[string]string{"Status": "b", "Enum": "c", "string": "d"},
			property: "status",
			declared: reflect.TypeOf(Status("")),
			wantKey:  "Status",
		},
		{
			name:     "enum before primitive",
			aliases:  map[string]string{"Enum": "c", "string": "d"},
			property: "status",
			declared: reflect.TypeOf(Status("")),
			wantKey:  "Enum",
		},
		{
			name:     "primitive kind name",
			aliases:  map[string]string{"int64": "d"},
			property: "age",
			declared: reflect.TypeOf(int64(0)),
			wantKey:  "int64",
		},
		{
			name:     "unregistered alias target is skipped",
			aliases:  map[string]string{"User.email": "missing", "string": "c"},
			property: "email",
			declared: reflect.TypeOf(""),
			wantKey:  "string",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			reg := components.NewRegistry()
			for _, name := range []string{"a", "b", "c", "d"} {
				reg.RegisterNamed(name, components.Named(name, nil))
			}
			reg.SetAliases(tc.aliases)
			binding, err := reg.Resolve(components.ForField(userType, tc.property, tc.declared))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if binding.Level != components.LevelAlias || binding.Key != tc.wantKey {
				t.Fatalf("want alias %q, got %s %q", tc.wantKey, binding.Level, binding.Key)
			}
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	cases := []struct {
		name     string
		declared reflect.Type
		want     string
	}{
		{name: "string", declared: reflect.TypeOf(""), want: components.ComponentText},
		{name: "bool", declared: reflect.TypeOf(false), want: components.ComponentToggle},
		{name: "int", declared: reflect.TypeOf(0), want: components.ComponentNumber},
		{name: "uint8", declared: reflect.TypeOf(uint8(0)), want: components.ComponentNumber},
		{name: "float", declared: reflect.TypeOf(0.5), want: components.ComponentDecimal},
		{name: "pointer to string", declared: reflect.TypeOf((*string)(nil)), want: components.ComponentText},
		{name: "time", declared: reflect.TypeOf(time.Time{}), want: components.ComponentDateTime},
		{name: "pointer to time", declared: reflect.TypeOf(&time.Time{}), want: components.ComponentDateTime},
		{name: "duration", declared: reflect.TypeOf(time.Second), want: components.ComponentDuration},
		{name: "text marshaler capability", declared: reflect.TypeOf(Code{}), want: components.ComponentText},
		{name: "enum", declared: reflect.TypeOf(Status("")), want: components.ComponentSelect},
		{name: "string slice", declared: reflect.TypeOf([]string(nil)), want: components.ComponentChips},
		{name: "enum slice", declared: reflect.TypeOf([]Status(nil)), want: components.ComponentChips},
		{name: "struct slice", declared: reflect.TypeOf([]Address(nil)), want: components.ComponentList},
		{name: "array", declared: reflect.TypeOf([3]int{}), want: components.ComponentList},
		{name: "map", declared: reflect.TypeOf(map[string]int(nil)), want: components.ComponentKeyValue},
		{name: "custom container", declared: reflect.TypeOf(Bag{}), want: components.ComponentList},
		{name: "pointer container", declared: reflect.TypeOf(Tags{}), want: components.ComponentChips},
	}
	reg := components.NewRegistry()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveName(t, reg, components.ForField(userType, "value", tc.declared)); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolve_EnumComponentsCarryValues(t *testing.T) {
	reg := components.NewRegistry()
	for _, declared := range []reflect.Type{reflect.TypeOf(Status("")), reflect.TypeOf([]Status(nil))} {
		comp, err := reg.Component(components.ForField(userType, "status", declared))
		if err != nil {
			t.Fatalf("resolve %s: %v", declared, err)
		}
		if diff := cmp.Diff([]string{"active", "disabled"}, comp.Enum); diff != "" {
			t.Fatalf("%s enum mismatch (-want +got):\n%s", declared, diff)
		}
	}
}

func TestResolve_CapabilityCoversImplementors(t *testing.T) {
	reg := components.NewRegistry(components.WithoutDefaults())
	reg.RegisterDefault(reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), components.Named("stringer", nil))

	if got := resolveName(t, reg, components.ForField(userType, "d", reflect.TypeOf(time.Second))); got != "stringer" {
		t.Fatalf("expected capability binding, got %q", got)
	}
	if got := resolveName(t, reg, components.ForField(userType, "d", reflect.TypeOf(&time.Time{}))); got != "stringer" {
		t.Fatalf("expected capability binding for pointer, got %q", got)
	}
}

func TestResolve_MissReportsTuple(t *testing.T) {
	reg := components.NewRegistry()
	_, err := reg.Resolve(components.ForField(userType, "address", reflect.TypeOf(Address{})))
	if err == nil {
		t.Fatalf("expected resolution error")
	}
	var resErr *components.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %T", err)
	}
	if resErr.DeclaringType != userType || resErr.Property != "address" || resErr.DeclaredType != reflect.TypeOf(Address{}) {
		t.Fatalf("unexpected tuple: %+v", resErr)
	}
	if !errors.Is(err, components.ErrNoComponent) {
		t.Fatalf("expected errors.Is ErrNoComponent")
	}
	for _, part := range []string{"components_test.User", "address", "components_test.Address"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("error %q must mention %q", err.Error(), part)
		}
	}

	// the miss does not poison later resolutions
	if got := resolveName(t, reg, components.ForField(userType, "name", reflect.TypeOf(""))); got != components.ComponentText {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_WithoutDefaultsFailsForPrimitives(t *testing.T) {
	reg := components.NewRegistry(components.WithoutDefaults())
	if _, err := reg.Resolve(components.ForField(userType, "name", reflect.TypeOf(""))); !errors.Is(err, components.ErrNoComponent) {
		t.Fatalf("expected ErrNoComponent, got %v", err)
	}
}

func TestElementType_Fallbacks(t *testing.T) {
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	cases := []struct {
		name     string
		declared reflect.Type
		want     reflect.Type
	}{
		{name: "scalar", declared: reflect.TypeOf(""), want: nil},
		{name: "bytes are scalar", declared: reflect.TypeOf([]byte(nil)), want: nil},
		{name: "slice", declared: reflect.TypeOf([]string(nil)), want: reflect.TypeOf("")},
		{name: "pointer to slice", declared: reflect.TypeOf(&[]int{}), want: reflect.TypeOf(0)},
		{name: "array", declared: reflect.TypeOf([2]bool{}), want: reflect.TypeOf(false)},
		{name: "map value", declared: reflect.TypeOf(map[string]int64(nil)), want: reflect.TypeOf(int64(0))},
		{name: "nested slice erased", declared: reflect.TypeOf([][]int(nil)), want: reflect.TypeOf([]any(nil))},
		{name: "nested map erased", declared: reflect.TypeOf([]map[string]int(nil)), want: reflect.TypeOf(map[string]any(nil))},
		{name: "map of slices erased", declared: reflect.TypeOf(map[string][]int(nil)), want: reflect.TypeOf([]any(nil))},
		{name: "slice of any", declared: reflect.TypeOf([]any(nil)), want: anyType},
		{name: "container declared element", declared: reflect.TypeOf(Tags{}), want: reflect.TypeOf("")},
		{name: "container nested element erased", declared: reflect.TypeOf(Matrix{}), want: reflect.TypeOf([]any(nil))},
		{name: "container unknown element", declared: reflect.TypeOf(Bag{}), want: anyType},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := components.ElementType(tc.declared); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRegistry_ConcurrentRegisterAndResolve(t *testing.T) {
	reg := components.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("field%d", i)
			reg.OverrideByProperty(userType, name, components.Named(name, nil))
			reg.RegisterDefault(reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), components.Named("stringer", nil))
		}(i)
		go func() {
			defer wg.Done()
			if _, err := reg.Resolve(components.ForField(userType, "name", reflect.TypeOf(""))); err != nil {
				t.Errorf("resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("field%d", i)
		if got := resolveName(t, reg, components.ForField(userType, name, reflect.TypeOf(Address{}))); got != name {
			t.Fatalf("want %q, got %q", name, got)
		}
	}
}

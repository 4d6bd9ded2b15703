package text_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudmeta/pkg/text"
)

type mapProvider map[string]string

func (m mapProvider) Text(_ string, key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

type recordingProvider struct {
	calls []string
}

func (p *recordingProvider) Text(_ string, key string) (string, bool) {
	p.calls = append(p.calls, key)
	return "", false
}

func TestExpand(t *testing.T) {
	cases := []struct {
		key  string
		want []string
	}{
		{key: "crud.user.dialog.confirm", want: []string{"crud.user.dialog.confirm", "user.dialog.confirm", "dialog.confirm", "confirm"}},
		{key: "a.b.c.d", want: []string{"a.b.c.d", "b.c.d", "c.d", "d"}},
		{key: "single", want: []string{"single"}},
		{key: "  ", want: nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, text.Expand(tc.key)); diff != "" {
				t.Fatalf("expand mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCandidates_ScopesBeforeUnscoped(t *testing.T) {
	resolver := text.NewResolver(nil, text.WithScopes("admin", " crud. ", ""))
	want := []string{
		"admin.user.name", "user.name", "name",
		"crud.user.name",
	}
	if diff := cmp.Diff(want, resolver.Candidates("user.name")); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_SkipsIdentityResults(t *testing.T) {
	resolver := text.NewResolver([]text.Provider{text.Identity{}, mapProvider{"label.ok": "OK"}})
	got, ok := resolver.Resolve("label.ok", "en")
	if !ok || got != "OK" {
		t.Fatalf("expected OK, got %q (%v)", got, ok)
	}
}

func TestResolve_CandidateMajorProviderMinor(t *testing.T) {
	first := &recordingProvider{}
	second := &recordingProvider{}
	resolver := text.NewResolver([]text.Provider{first, second}, text.WithScopes("crud"))

	if _, ok := resolver.Resolve("user.name", "en"); ok {
		t.Fatalf("expected absent")
	}
	want := []string{"crud.user.name", "user.name", "name"}
	if diff := cmp.Diff(want, first.calls); diff != "" {
		t.Fatalf("first provider calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, second.calls); diff != "" {
		t.Fatalf("second provider calls mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_MostSpecificWins(t *testing.T) {
	provider := mapProvider{
		"confirm":                  "Confirm",
		"user.dialog.confirm":      "Confirm user",
		"crud.user.dialog.confirm": "Really confirm user?",
	}
	resolver := text.NewResolver([]text.Provider{provider})
	if got := resolver.TextOr("crud.user.dialog.confirm", ""); got != "Really confirm user?" {
		t.Fatalf("got %q", got)
	}
	if got := resolver.TextOr("other.dialog.confirm", ""); got != "Confirm" {
		t.Fatalf("expected hierarchical fallback, got %q", got)
	}

	scoped := resolver.Scoped("crud")
	if got := scoped.TextOr("user.dialog.confirm", ""); got != "Really confirm user?" {
		t.Fatalf("expected scoped match, got %q", got)
	}
}

func TestResolve_AbsentFallsBackToKey(t *testing.T) {
	resolver := text.NewResolver([]text.Provider{mapProvider{}})
	if _, ok := resolver.Resolve("nothing.here", "en"); ok {
		t.Fatalf("expected absent")
	}
	if got := resolver.TextOr("nothing.here", "en"); got != "nothing.here" {
		t.Fatalf("expected raw key, got %q", got)
	}
	_, err := resolver.Translate("en", "nothing.here")
	if !errors.Is(err, text.ErrMissingText) {
		t.Fatalf("expected ErrMissingText, got %v", err)
	}
}

func TestTranslate_FormatsArgs(t *testing.T) {
	resolver := text.NewResolver([]text.Provider{mapProvider{"rows.selected": "%d selected"}})
	got, err := resolver.Translate("en", "rows.selected", 3)
	if err != nil || got != "3 selected" {
		t.Fatalf("got %q (%v)", got, err)
	}
}

type stubTranslator map[string]string

func (s stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if value, ok := s[key]; ok {
		return value, nil
	}
	return "", errors.New("missing translation")
}

func TestFromTranslatorAndSanitized(t *testing.T) {
	provider := text.Sanitized(text.FromTranslator(stubTranslator{
		"save":  "<b>Save</b>",
		"blank": "<script>alert(1)</script>",
	}), nil)
	resolver := text.NewResolver([]text.Provider{provider})

	if got := resolver.TextOr("save", "en"); got != "Save" {
		t.Fatalf("expected sanitised text, got %q", got)
	}
	if _, ok := resolver.Resolve("blank", "en"); ok {
		t.Fatalf("markup that sanitises to blank must be absent")
	}
	if _, ok := resolver.Resolve("missing", "en"); ok {
		t.Fatalf("translator errors must be absent")
	}
}

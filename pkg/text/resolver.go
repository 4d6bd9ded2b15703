package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrMissingText is returned by Translate when no provider yields text.
var ErrMissingText = errors.New("text: missing text")

// Option customises a Resolver.
type Option func(*Resolver)

// WithScopes sets the scope prefixes tried, in order, before the unscoped
// key.
func WithScopes(scopes ...string) Option {
	return func(r *Resolver) {
		r.scopes = cleanScopes(scopes)
	}
}

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver resolves keys through hierarchical candidates and an ordered
// provider chain. It holds no mutable state after construction.
type Resolver struct {
	providers []Provider
	scopes    []string
	logger    zerolog.Logger
}

// NewResolver builds a resolver over providers, queried in order.
func NewResolver(providers []Provider, options ...Option) *Resolver {
	r := &Resolver{logger: zerolog.Nop()}
	for _, p := range providers {
		if p != nil {
			r.providers = append(r.providers, p)
		}
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Scoped returns a resolver sharing the provider chain whose scopes are
// scopes followed by the receiver's own scopes.
func (r *Resolver) Scoped(scopes ...string) *Resolver {
	next := &Resolver{
		providers: r.providers,
		logger:    r.logger,
	}
	next.scopes = append(cleanScopes(scopes), r.scopes...)
	return next
}

// Scopes returns the configured scope prefixes.
func (r *Resolver) Scopes() []string {
	return append([]string(nil), r.scopes...)
}

// Expand returns the hierarchy of a dot separated key, most specific first:
// "a.b.c" -> ["a.b.c", "b.c", "c"].
func Expand(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	segments := strings.Split(key, ".")
	out := make([]string, 0, len(segments))
	for i := range segments {
		out = append(out, strings.Join(segments[i:], "."))
	}
	return out
}

// Candidates returns the lookup order for key: every scoped expansion in
// scope order, then the unscoped expansion. Repeats are dropped.
func (r *Resolver) Candidates(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	appendAll := func(keys []string) {
		for _, candidate := range keys {
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			out = append(out, candidate)
		}
	}
	for _, scope := range r.scopes {
		appendAll(Expand(scope + "." + key))
	}
	appendAll(Expand(key))
	return out
}

// Resolve returns the first provider result for the candidates of key that
// differs from key itself.
func (r *Resolver) Resolve(key, locale string) (string, bool) {
	original := strings.TrimSpace(key)
	if original == "" {
		return "", false
	}
	for _, candidate := range r.Candidates(original) {
		for _, p := range r.providers {
			value, ok := p.Text(locale, candidate)
			if !ok || value == original {
				continue
			}
			r.logger.Debug().
				Str("key", original).
				Str("candidate", candidate).
				Str("locale", locale).
				Msg("text resolved")
			return value, true
		}
	}
	r.logger.Debug().Str("key", original).Str("locale", locale).Msg("text missing")
	return "", false
}

// Text implements Provider so resolvers can be nested.
func (r *Resolver) Text(locale, key string) (string, bool) {
	return r.Resolve(key, locale)
}

// TextOr resolves key, falling back to the raw key.
func (r *Resolver) TextOr(key, locale string) string {
	if value, ok := r.Resolve(key, locale); ok {
		return value
	}
	return key
}

// Translate implements Translator. Args are applied with fmt.Sprintf.
func (r *Resolver) Translate(locale, key string, args ...any) (string, error) {
	value, ok := r.Resolve(key, locale)
	if !ok {
		return "", fmt.Errorf("%w: %q (locale %q)", ErrMissingText, key, locale)
	}
	if len(args) > 0 {
		value = fmt.Sprintf(value, args...)
	}
	return value, nil
}

func cleanScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		scope = strings.Trim(strings.TrimSpace(scope), ".")
		if scope != "" {
			out = append(out, scope)
		}
	}
	return out
}

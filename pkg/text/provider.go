package text

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Provider returns the text stored for key in locale.
type Provider interface {
	Text(locale, key string) (string, bool)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(locale, key string) (string, bool)

// Text calls the underlying function.
func (fn ProviderFunc) Text(locale, key string) (string, bool) {
	return fn(locale, key)
}

// Identity returns every key unchanged. Place it last in a chain.
type Identity struct{}

// Text returns key.
func (Identity) Text(_ string, key string) (string, bool) {
	if strings.TrimSpace(key) == "" {
		return "", false
	}
	return key, true
}

// Translator matches the translator contract used by renderers.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// FromTranslator exposes a Translator as a Provider. Errors and blank
// results are treated as absent.
func FromTranslator(t Translator) Provider {
	return ProviderFunc(func(locale, key string) (string, bool) {
		if t == nil {
			return "", false
		}
		value, err := t.Translate(locale, key)
		if err != nil || strings.TrimSpace(value) == "" {
			return "", false
		}
		return value, true
	})
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func defaultPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitized strips markup from provider results using policy, or a strict
// policy when nil. Results that sanitise to blank are absent.
func Sanitized(p Provider, policy *bluemonday.Policy) Provider {
	if policy == nil {
		policy = defaultPolicy()
	}
	return ProviderFunc(func(locale, key string) (string, bool) {
		if p == nil {
			return "", false
		}
		value, ok := p.Text(locale, key)
		if !ok {
			return "", false
		}
		cleaned := strings.TrimSpace(policy.Sanitize(value))
		if cleaned == "" {
			return "", false
		}
		return cleaned, true
	})
}

package text

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLocale canonicalises a BCP 47 tag ("pt_br" -> "pt-BR"). Unparseable
// input is returned trimmed.
func NormalizeLocale(locale string) string {
	raw := strings.TrimSpace(locale)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil || tag.IsRoot() {
		return raw
	}
	return tag.String()
}

// LocaleCandidates expands locale into the lookup order used by leaf
// providers: the full tag, its base language, then the root locale "".
func LocaleCandidates(locale string) []string {
	raw := strings.TrimSpace(locale)
	if raw == "" {
		return []string{""}
	}
	out := make([]string, 0, 3)
	add := func(value string) {
		for _, existing := range out {
			if existing == value {
				return
			}
		}
		out = append(out, value)
	}

	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil || tag.IsRoot() {
		add(raw)
		if idx := strings.IndexAny(raw, "-_"); idx > 0 {
			add(raw[:idx])
		}
		add("")
		return out
	}

	add(tag.String())
	if base, conf := tag.Base(); conf != language.No {
		add(base.String())
	}
	add("")
	return out
}

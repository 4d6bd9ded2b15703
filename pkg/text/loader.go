package text

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootLocale names the bundle file stem that loads into the root locale "".
const RootLocale = "root"

// LoadFS walks fsys and loads every JSON/YAML bundle into a new catalog.
// The file stem names the locale (es.yaml, pt-BR.json, root.yaml); nested
// maps flatten into dot separated keys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := NewCatalog()
	if err := LoadInto(catalog, fsys); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadInto loads bundles from fsys into catalog. A key defined twice for the
// same locale fails.
func LoadInto(catalog *Catalog, fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	origin := make(map[string]string)
	return fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isBundleFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("text: read %s: %w", p, err)
		}
		values, err := parseBundle(data, p)
		if err != nil {
			return err
		}

		locale := BundleLocale(p)
		for key, value := range values {
			id := locale + "\x00" + key
			if prev, exists := origin[id]; exists {
				return fmt.Errorf("text: duplicate key %q for locale %q (files %s and %s)", key, locale, prev, p)
			}
			origin[id] = p
			catalog.Set(locale, key, value)
		}
		return nil
	})
}

// BundleLocale derives the locale for a bundle path.
func BundleLocale(p string) string {
	stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.EqualFold(stem, RootLocale) {
		return ""
	}
	return NormalizeLocale(stem)
}

// BundleFile returns the file name used for locale.
func BundleFile(locale string) string {
	locale = NormalizeLocale(locale)
	if locale == "" {
		locale = RootLocale
	}
	return locale + ".yaml"
}

// WriteYAML encodes values as a flat YAML bundle with sorted keys.
func WriteYAML(w io.Writer, values map[string]string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(values); err != nil {
		return fmt.Errorf("text: encode bundle: %w", err)
	}
	return enc.Close()
}

// ParseBundle flattens one JSON or YAML bundle into dotted keys.
func ParseBundle(data []byte, source string) (map[string]string, error) {
	return parseBundle(data, source)
}

func parseBundle(data []byte, source string) (map[string]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("text: parse %s: invalid JSON or YAML", source)
		}
	}
	out := make(map[string]string)
	if err := flatten(out, "", raw, source); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(dst map[string]string, prefix string, node map[string]any, source string) error {
	for key, value := range node {
		full := joinKey(prefix, strings.TrimSpace(key))
		if full == "" {
			return fmt.Errorf("text: %s defines an empty key", source)
		}
		if _, dup := dst[full]; dup {
			return fmt.Errorf("text: duplicate key %q in %s", full, source)
		}
		switch v := value.(type) {
		case map[string]any:
			if err := flatten(dst, full, v, source); err != nil {
				return err
			}
		case string:
			dst[full] = v
		case nil:
			dst[full] = ""
		case bool, int, int64, uint64, float64:
			dst[full] = fmt.Sprint(v)
		default:
			return fmt.Errorf("text: %s key %q has unsupported value %T", source, full, value)
		}
	}
	return nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return ""
	}
	return prefix + "." + key
}

func isBundleFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

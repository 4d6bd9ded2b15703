package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML UI documents.
// When fsys is nil or no documents are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{types: make(map[string]TypeConfig), aliases: make(map[string]string)}
	if fsys == nil {
		return store, nil
	}

	aliasSource := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawName, raw := range doc.Types {
			name := strings.TrimSpace(rawName)
			if name == "" {
				return fmt.Errorf("uischema: file %s defines an empty type name", path)
			}
			if existing, exists := store.types[name]; exists {
				return fmt.Errorf("uischema: duplicate type %q (files %s and %s)", name, existing.Source, path)
			}
			cfg, err := normaliseType(raw, name, path)
			if err != nil {
				return err
			}
			store.types[name] = cfg
		}

		for rawKey, rawName := range doc.Components {
			key, name := strings.TrimSpace(rawKey), strings.TrimSpace(rawName)
			if key == "" || name == "" {
				return fmt.Errorf("uischema: file %s defines an empty component alias", path)
			}
			if prev, exists := aliasSource[key]; exists {
				return fmt.Errorf("uischema: duplicate component alias %q (files %s and %s)", key, prev, path)
			}
			aliasSource[key] = path
			store.aliases[key] = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

type documentFile struct {
	Types      map[string]TypeConfig `json:"types" yaml:"types"`
	Components map[string]string     `json:"components" yaml:"components"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseType(raw TypeConfig, name, source string) (TypeConfig, error) {
	cfg := TypeConfig{
		Name:     name,
		Source:   source,
		Title:    strings.TrimSpace(raw.Title),
		Metadata: cloneStringMap(raw.Metadata),
		Fields:   make(map[string]FieldConfig, len(raw.Fields)),
	}
	for key, field := range raw.Fields {
		prop := strings.TrimSpace(key)
		if prop == "" {
			return TypeConfig{}, fmt.Errorf("uischema: type %q (file %s) defines an empty field name", name, source)
		}
		if _, exists := cfg.Fields[prop]; exists {
			return TypeConfig{}, fmt.Errorf("uischema: type %q (file %s) defines duplicate field %q", name, source, prop)
		}
		field.UIHints = cloneStringMap(field.UIHints)
		cfg.Fields[prop] = field
	}
	return cfg, nil
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-crudmeta/internal/prompt"
	"github.com/goliatone/go-crudmeta/pkg/text"
)

// fillMissing prompts for every key reference has and locale lacks. Blank
// answers skip the key.
func fillMissing(ctx context.Context, driver prompt.Driver, catalog *text.Catalog, locale, reference string) (map[string]string, error) {
	missing := catalog.Missing(locale, reference)
	if err := driver.Info(ctx, fmt.Sprintf("%s: %d missing texts", text.BundleFile(locale), len(missing))); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(missing))
	for _, key := range missing {
		source, _ := catalog.Lookup(reference, key)
		answer, err := driver.Input(ctx, prompt.InputConfig{
			Message: key,
			Help:    fmt.Sprintf("reference text: %q", source),
		})
		if err != nil {
			return nil, err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			out[key] = answer
		}
	}
	return out, nil
}

// mergeBundle adds values to the bundle at path, creating it when absent.
// Existing keys keep their value.
func mergeBundle(path string, values map[string]string) error {
	merged := make(map[string]string, len(values))
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		existing, err := text.ParseBundle(data, path)
		if err != nil {
			return err
		}
		for key, value := range existing {
			merged[key] = value
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}
	for key, value := range values {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}

	var buf bytes.Buffer
	if err := text.WriteYAML(&buf, merged); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

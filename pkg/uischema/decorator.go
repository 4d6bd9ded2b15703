package uischema

import (
	"strings"

	"github.com/goliatone/go-crudmeta/pkg/model"
	"github.com/goliatone/go-crudmeta/pkg/text"
)

const titleKeyMetadata = "titleKey"

// Decorator applies document level metadata to a built form: the title key,
// form metadata and per-field UI hints.
type Decorator struct {
	store *Store
	text  *text.Resolver
}

// NewDecorator builds a Decorator backed by store. Title keys are resolved
// through resolver when it is non-nil. When store is nil or empty the
// decorator is a no-op.
func NewDecorator(store *Store, resolver *text.Resolver) *Decorator {
	return &Decorator{store: store, text: resolver}
}

// Decorate augments form. Forms for unconfigured types are left untouched.
func (d *Decorator) Decorate(form *model.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}
	cfg, ok := d.store.Type(form.Type)
	if !ok {
		return nil
	}

	form.Metadata = mergeStringMap(form.Metadata, cfg.Metadata)
	if key := strings.TrimSpace(cfg.Title); key != "" {
		form.Metadata = mergeStringMap(form.Metadata, map[string]string{titleKeyMetadata: key})
		form.Title = key
		if d.text != nil {
			form.Title = d.text.TextOr(key, form.Locale)
		}
	}

	for i := range form.Fields {
		field := &form.Fields[i]
		fieldCfg, ok := cfg.Fields[field.Name]
		if !ok {
			continue
		}
		field.UIHints = mergeStringMap(field.UIHints, fieldCfg.UIHints)
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

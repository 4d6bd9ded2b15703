package overrides

import "github.com/goliatone/go-crudmeta/pkg/semantic"

// Config is the mutable per-build view of one property, seeded from its
// semantic defaults.
type Config struct {
	property semantic.Property

	label    string
	visible  bool
	required bool
	tooltip  string

	labelSet    bool
	visibleSet  bool
	requiredSet bool
	tooltipSet  bool
}

func newConfig(prop semantic.Property) *Config {
	return &Config{
		property: prop,
		label:    prop.LabelKey,
		visible:  !prop.Hidden,
		required: prop.Required,
		tooltip:  prop.TooltipKey,
	}
}

// Property returns the shared semantic property this config was seeded from.
func (c *Config) Property() semantic.Property { return c.property }

// Name returns the property name.
func (c *Config) Name() string { return c.property.Name }

// Label sets the label key (or literal label) for the property.
func (c *Config) Label(label string) *Config {
	c.label = label
	c.labelSet = true
	return c
}

// Visible forces the property visible or hidden.
func (c *Config) Visible(visible bool) *Config {
	c.visible = visible
	c.visibleSet = true
	return c
}

// Hidden is shorthand for Visible(false).
func (c *Config) Hidden() *Config {
	return c.Visible(false)
}

// Required marks the property as required (or not).
func (c *Config) Required(required bool) *Config {
	c.required = required
	c.requiredSet = true
	return c
}

// Tooltip sets the tooltip key (or literal text).
func (c *Config) Tooltip(tooltip string) *Config {
	c.tooltip = tooltip
	c.tooltipSet = true
	return c
}

// LabelKey returns the effective label key.
func (c *Config) LabelKey() string { return c.label }

// IsVisible returns the effective visibility.
func (c *Config) IsVisible() bool { return c.visible }

// IsRequired returns the effective required flag.
func (c *Config) IsRequired() bool { return c.required }

// TooltipKey returns the effective tooltip key.
func (c *Config) TooltipKey() string { return c.tooltip }

// HasLabelOverride reports whether Label was called.
func (c *Config) HasLabelOverride() bool { return c.labelSet }

// HasVisibilityOverride reports whether Visible or Hidden was called.
func (c *Config) HasVisibilityOverride() bool { return c.visibleSet }

// HasRequiredOverride reports whether Required was called.
func (c *Config) HasRequiredOverride() bool { return c.requiredSet }

// HasTooltipOverride reports whether Tooltip was called.
func (c *Config) HasTooltipOverride() bool { return c.tooltipSet }

// ForcedReadOnly reports whether a technical property was made visible by an
// explicit override. Such properties are shown but never editable.
func (c *Config) ForcedReadOnly() bool {
	return c.property.Technical && c.visibleSet && c.visible
}

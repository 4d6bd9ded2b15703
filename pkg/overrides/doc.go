// Package overrides layers per-build property customisations (label,
// visibility, required, tooltip) on top of a semantic model's defaults.
//
// Overrides compose per property name and every attribute tracks whether it
// was explicitly configured, so consumers can tell "configured to the default"
// apart from "never configured".
package overrides

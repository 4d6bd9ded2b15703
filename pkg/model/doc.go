// Package model defines the renderer-facing structures produced by the
// scaffold builder: forms, grids and resolved actions. Every label and
// tooltip is already resolved to display text; the originating text keys are
// kept alongside so renderers can re-localise. Component names are the
// identifiers chosen by the component registry (text, select, chips, ...)
// and Metadata carries renderer directives such as `required.indicator`,
// `permission` and `readonly.forced`.
package model

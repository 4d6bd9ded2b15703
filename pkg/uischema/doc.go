// Package uischema loads declarative UI documents that adjust generated
// forms and grids without touching the Go types. A document maps type names
// to per-property overrides (label, visibility, required, tooltip,
// component) and configures component aliases for the registry. The store
// turns documents into overrides.Set values, registry aliases and a form
// decorator.
package uischema

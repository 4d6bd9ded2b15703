// Package text resolves semantic label and message keys to display text.
//
// A Resolver expands every key into hierarchical fallbacks (optionally
// prefixed by scopes) and walks an ordered chain of Providers, returning the
// first result that is not just the input key echoed back. Providers cover
// in-memory catalogs, file bundles loaded with LoadFS, translator adapters and
// sanitising wrappers; persistence backed entries live in the sqltext
// subpackage and are preloaded into a Catalog.
package text

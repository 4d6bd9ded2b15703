// Package actions resolves the CRUD actions offered by a surface (grid,
// detail view, dialog) for a type.
//
// Actions form a closed set of three scopes. Toolbar actions take no
// argument, item actions act on one record and selection actions act on the
// selected records; each scope carries its own enablement predicate and
// handler signature. A type declares an action provider either by
// implementing Declarer or through Resolver.Declare; the resolver constructs
// the provider (from a Container carried in the context when present),
// invokes it and merges its actions with any attached at the call site.
package actions

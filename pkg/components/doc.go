// Package components resolves the field binding (component factory) used to
// edit or display one property. Resolution walks a fixed precedence chain:
// property overrides, type overrides (including pointer wrappers of
// primitives), externally configured aliases, and finally the default table
// with capability, enum and kind fallbacks. A miss at every level is a hard
// ResolutionError.
//
// The registry is process-wide and read concurrently; every table is backed
// by sync.Map or copy-on-write slices so registration and resolution can
// interleave without external locking.
package components

// Package scaffold combines semantic models, per-build overrides, component
// resolution and text resolution into the renderer-facing forms, grids and
// action bars defined in pkg/model.
package scaffold

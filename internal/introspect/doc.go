// Package introspect reflects over struct types once and produces the raw,
// ordered property descriptors consumed by pkg/semantic. It knows nothing about
// visibility or labels; it only discovers properties, the annotation sources
// that carry their markers, and the identity/version properties.
//
// Markers use the `crud` struct tag:
//
//	type User struct {
//		ID      int64  `crud:"id"`
//		Rev     int    `crud:"version"`
//		Email   string `json:"email" crud:"required,label=user.email,order=1"`
//		Secret  string `crud:"-"`
//	}
//
// Types can also declare markers in code through Accessor, and immutable value
// types expose positional components through Record.
package introspect

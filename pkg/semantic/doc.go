// Package semantic turns introspected struct types into semantic models: the
// ordered, UI-relevant description (visibility, technical flag, required,
// permission and label keys, order, read-only) that grid, form and export
// builders consume.
//
// Models are built once per type and shared through a Cache. Two interpreters
// derive the semantic attributes: Plain, and Persistence for gorm-mapped
// entities, which additionally treats `gorm:"not null"` columns as required.
package semantic

// Package persistence defines the mapping contract between semantic models
// and storage rows. Column names follow gorm conventions (an explicit
// `gorm:"column:..."` setting, else the naming strategy) so entities mapped
// here line up with tables gorm would create. Memory is a reference
// Repository used by examples and tests; real engines implement Repository
// themselves.
package persistence

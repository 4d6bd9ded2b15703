// Package openapi exports semantic models as OpenAPI 3 component schemas.
// Presentation semantics that have no OpenAPI equivalent (label keys, order,
// permission keys, technical and hidden markers) travel in the x-crud
// extension so generated clients and documentation tools can reuse them.
package openapi

// Package schema resolves field names to field descriptors.
//
// A Schema maps each indexed field to a Mapper. Only a *BitemporalMapper can
// serve bi-temporal conditions; every other mapper makes such a condition
// fail with an unsupported-field error.
//
// Schemas are built in code with New or compiled from CUE by package
// compiler.
package schema

// Package schema defines acset schemas: the objects, morphisms, attribute
// types, and attributes that fix the shape of an acset instance.
//
// A schema is a relational signature. Every object becomes a table in an
// instance; every morphism out of an object becomes a foreign-key column on
// that table; every attribute becomes a data column. The wire form
// (CatlabSchema) is laid out to be byte-compatible with the JSON emitted by
// Catlab, so schemas can be exchanged with the Julia ecosystem.
//
// Schemas are immutable after construction. Build one with New (or MustNew
// for package-level declarations) and share it freely; all lookup methods
// are read-only.
package schema

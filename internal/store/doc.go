// Package store provides durable SQLite storage for schemas and acset
// instances.
//
// Schemas are stored by name in their Catlab JSON form. Instances are
// content-addressed: the primary key is the instance hash over the canonical
// document, and writes are idempotent (saving the same data twice is a
// no-op). Because the stored document is the canonical serialization, the
// store can re-verify every hash without touching the rest of the library;
// see Verify.
package store

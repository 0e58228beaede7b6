// Package acset implements acset instances: collections of tables, one per
// object of a schema.
//
// Rows of the tables are called parts and cells of the rows are called
// subparts. Parts can be added and subparts read, set, and cleared; removing
// parts is unsupported. Morphism subparts hold part indices, attribute
// subparts hold typed values.
//
// Indexing convention: parts are zero-indexed in memory and ONE-indexed on
// the wire (the Catlab convention). The conversion happens only inside
// Export and Import; nothing else may shift indices.
//
// For content-addressed identity the package provides an RFC 8785 canonical
// JSON serialization and a domain-separated SHA-256 instance hash.
package acset

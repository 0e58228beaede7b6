package acset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInstance = "acsets/instance/v1"
	DomainSchema   = "acsets/schema/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed identity of the instance: the hash of
// its schema name and canonical document. The hash is stable across
// export/import round trips and across processes.
//
// The instance's own Name is intentionally EXCLUDED: identity is the data,
// not what a particular caller labels it. Two instances with identical
// tables hash equal regardless of name.
func (a *ACSet) Hash() (string, error) {
	doc, err := a.CanonicalDoc()
	if err != nil {
		return "", fmt.Errorf("instance hash: %w", err)
	}
	wrapped := Obj{
		"schema": Str(a.Schema.Name),
		"doc":    Str(doc),
	}
	canonical, err := MarshalCanonical(wrapped)
	if err != nil {
		return "", fmt.Errorf("instance hash: %w", err)
	}
	return hashWithDomain(DomainInstance, canonical), nil
}

// HashDoc computes the instance hash for an already-canonical document and
// schema name. Store verification recomputes hashes through this path
// without materializing an ACSet.
func HashDoc(schemaName string, canonicalDoc []byte) (string, error) {
	wrapped := Obj{
		"schema": Str(schemaName),
		"doc":    Str(canonicalDoc),
	}
	canonical, err := MarshalCanonical(wrapped)
	if err != nil {
		return "", fmt.Errorf("instance hash: %w", err)
	}
	return hashWithDomain(DomainInstance, canonical), nil
}

package store

import (
	"context"
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// SaveSchema inserts a schema in its Catlab JSON form.
// Uses ON CONFLICT(name) DO NOTHING for idempotency - a schema name, once
// written, is immutable. Other constraint violations still return errors.
func (s *Store) SaveSchema(ctx context.Context, sch *schema.Schema) error {
	catlab, err := sch.MarshalCatlab()
	if err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schemas (name, catlab)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, sch.Name, string(catlab))
	if err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	return nil
}

// SaveInstance inserts an instance and returns its content hash.
// The instance's schema is saved first so the foreign key holds. Uses
// ON CONFLICT(hash) DO NOTHING for idempotency - saving identical data
// twice is a no-op.
//
// The stored document is the RFC 8785 canonical serialization, which is
// what the hash commits to; see Verify.
func (s *Store) SaveInstance(ctx context.Context, acs *acset.ACSet) (string, error) {
	if err := s.SaveSchema(ctx, acs.Schema); err != nil {
		return "", fmt.Errorf("save instance: %w", err)
	}

	doc, err := acs.CanonicalDoc()
	if err != nil {
		return "", fmt.Errorf("save instance: %w", err)
	}
	hash, err := acset.HashDoc(acs.Schema.Name, doc)
	if err != nil {
		return "", fmt.Errorf("save instance: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO instances (hash, name, schema_name, doc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, acs.Name, acs.Schema.Name, string(doc))
	if err != nil {
		return "", fmt.Errorf("save instance: %w", err)
	}

	return hash, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
)

// Mismatch reports an instance whose stored hash does not match its stored
// document.
type Mismatch struct {
	Hash     string `json:"hash"`     // primary key as stored
	Computed string `json:"computed"` // hash recomputed from the document
	Name     string `json:"name"`
}

// Verify recomputes the content hash of every stored instance from its
// canonical document and reports mismatches. A non-empty result means the
// database was modified outside this library or is corrupt.
func (s *Store) Verify(ctx context.Context) ([]Mismatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, name, schema_name, doc
		FROM instances
		ORDER BY hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	defer rows.Close()

	var mismatches []Mismatch
	for rows.Next() {
		var hash, name, schemaName, doc string
		if err := rows.Scan(&hash, &name, &schemaName, &doc); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		computed, err := acset.HashDoc(schemaName, []byte(doc))
		if err != nil {
			return nil, fmt.Errorf("verify %q: %w", hash, err)
		}
		if computed != hash {
			mismatches = append(mismatches, Mismatch{Hash: hash, Computed: computed, Name: name})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	return mismatches, nil
}

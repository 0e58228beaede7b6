package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// ErrNotFound is returned when a schema or instance does not exist.
var ErrNotFound = errors.New("not found")

// InstanceInfo summarizes a stored instance.
type InstanceInfo struct {
	Hash      string `json:"hash"`
	Name      string `json:"name"`
	Schema    string `json:"schema"`
	CreatedAt string `json:"created_at"`
}

// LoadSchema reads a schema by name.
func (s *Store) LoadSchema(ctx context.Context, name string) (*schema.Schema, error) {
	var catlab string
	err := s.db.QueryRowContext(ctx,
		`SELECT catlab FROM schemas WHERE name = ?`, name).Scan(&catlab)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load schema %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load schema %q: %w", name, err)
	}
	return schema.ParseCatlab(name, []byte(catlab))
}

// ListSchemas returns the names of all stored schemas, ordered by name.
func (s *Store) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM schemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list schemas: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return names, nil
}

// LoadInstance reads an instance by content hash and rebuilds it against its
// stored schema.
func (s *Store) LoadInstance(ctx context.Context, hash string) (*acset.ACSet, error) {
	var name, schemaName, doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, schema_name, doc FROM instances WHERE hash = ?`, hash).
		Scan(&name, &schemaName, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load instance %q: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", hash, err)
	}

	sch, err := s.LoadSchema(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", hash, err)
	}
	return acset.Import(name, sch, []byte(doc))
}

// ListInstances returns summaries of all stored instances.
// Ordered deterministically: created_at ASC, hash ASC.
func (s *Store) ListInstances(ctx context.Context) ([]InstanceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, name, schema_name, created_at
		FROM instances
		ORDER BY created_at ASC, hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	infos := []InstanceInfo{}
	for rows.Next() {
		var info InstanceInfo
		if err := rows.Scan(&info.Hash, &info.Name, &info.Schema, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("list instances: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return infos, nil
}

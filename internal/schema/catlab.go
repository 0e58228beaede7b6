package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// VersionSpec versions the serialization format so old serializations can be
// migrated if the format changes.
type VersionSpec struct {
	ACSetSchema string `json:"ACSetSchema"`
	Catlab      string `json:"Catlab"`
}

// Version is the serialization version pin for every schema this library
// writes. Bump ACSetSchema on any wire-format change.
var Version = VersionSpec{
	ACSetSchema: "0.0.1",
	Catlab:      "0.14.12",
}

// CatlabSchema is the wire form of a schema. The field layout matches the
// JSON produced and consumed by Catlab; do not reorder.
type CatlabSchema struct {
	Version   VersionSpec `json:"version"`
	Obs       []Ob        `json:"Ob"`
	Homs      []Hom       `json:"Hom"`
	AttrTypes []AttrType  `json:"AttrType"`
	Attrs     []Attr      `json:"Attr"`
}

// Catlab returns the wire form of the schema.
func (s *Schema) Catlab() CatlabSchema {
	return CatlabSchema{
		Version:   Version,
		Obs:       s.Obs,
		Homs:      s.Homs,
		AttrTypes: s.AttrTypes,
		Attrs:     s.Attrs,
	}
}

// MarshalCatlab serializes the schema to Catlab-compatible JSON.
// Output is deterministic: struct field order, two-space indent, no HTML
// escaping, trailing newline.
func (s *Schema) MarshalCatlab() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Catlab()); err != nil {
		return nil, fmt.Errorf("marshal catlab schema: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCatlabFile writes the Catlab JSON form of the schema to path.
func (s *Schema) WriteCatlabFile(path string) error {
	data, err := s.MarshalCatlab()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catlab schema: %w", err)
	}
	return nil
}

// ParseCatlab deserializes a Catlab JSON schema and validates it under the
// given name. Unknown fields are rejected so that drift between producers is
// caught at the boundary.
func ParseCatlab(name string, data []byte) (*Schema, error) {
	var cs CatlabSchema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cs); err != nil {
		return nil, fmt.Errorf("parse catlab schema: %w", err)
	}
	if cs.Version.ACSetSchema != "" && cs.Version.ACSetSchema != Version.ACSetSchema {
		return nil, fmt.Errorf("parse catlab schema: unsupported ACSetSchema version %q (want %q)",
			cs.Version.ACSetSchema, Version.ACSetSchema)
	}
	return New(name, cs.Obs, cs.Homs, cs.AttrTypes, cs.Attrs)
}

// ReadCatlabFile reads and validates a Catlab JSON schema from path.
// The schema takes its name from the name argument, not the file.
func ReadCatlabFile(name, path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catlab schema: %w", err)
	}
	return ParseCatlab(name, data)
}

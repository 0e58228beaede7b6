package acset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// Export serializes the instance to interchange JSON.
//
// The document is a single object with one key per schema object, in schema
// declaration order; each table is an array of records whose fields appear
// in PropsOut order (morphisms before attributes). Morphism cells are
// one-indexed on the wire. Unset cells are omitted. Every table key is
// present even when the table is empty.
//
// Output is deterministic: the same instance always exports the same bytes.
func (a *ACSet) Export() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for oi, ob := range a.Schema.Obs {
		if oi > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalPlainString(ob.Name)
		if err != nil {
			return nil, fmt.Errorf("export %q: %w", ob.Name, err)
		}
		buf.Write(key)
		buf.WriteString(":[")
		props := a.Schema.PropsOut(ob.Name)
		for i := 0; i < a.NParts(ob.Name); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := a.exportRecord(&buf, ob.Name, props, i); err != nil {
				return nil, fmt.Errorf("export %s[%d]: %w", ob.Name, i, err)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExportIndent is Export with two-space indentation, for files meant to be
// read by people.
func (a *ACSet) ExportIndent() ([]byte, error) {
	data, err := a.Export()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("export indent: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (a *ACSet) exportRecord(buf *bytes.Buffer, ob string, props []schema.Property, i int) error {
	buf.WriteByte('{')
	wrote := false
	for _, prop := range props {
		v, ok := a.subparts[prop.PropName()][i]
		if !ok {
			continue
		}
		if _, isHom := prop.(*schema.Hom); isHom {
			v = v.(Int) + 1 // wire form is one-indexed
		}
		if wrote {
			buf.WriteByte(',')
		}
		key, err := marshalPlainString(prop.PropName())
		if err != nil {
			return err
		}
		valBytes, err := marshalPlainValue(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", prop.PropName(), err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(valBytes)
		wrote = true
	}
	buf.WriteByte('}')
	return nil
}

// marshalPlainString marshals a string without HTML escaping.
func marshalPlainString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// marshalPlainValue marshals a cell value without HTML escaping.
func marshalPlainValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile writes the indented interchange JSON to path.
func (a *ACSet) WriteFile(path string) error {
	data, err := a.ExportIndent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write instance: %w", err)
	}
	return nil
}

// Import deserializes interchange JSON into an instance of the given schema.
//
// Import is strict: the document must contain exactly the schema's table
// keys (all required, even when empty), records may not carry undeclared
// fields, morphism cells must be integers (converted from one-indexed wire
// form to zero-indexed memory form), and attribute cells must match their
// declared kind. Referential bounds are NOT checked here; run Validate on
// the result.
func Import(name string, sch *schema.Schema, data []byte) (*ACSet, error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	for key := range doc {
		if sch.ObByName(key) == nil {
			return nil, fmt.Errorf("import: unknown table %q in schema %q", key, sch.Name)
		}
	}

	a := New(name, sch)
	for _, ob := range sch.Obs {
		raw, ok := doc[ob.Name]
		if !ok {
			return nil, fmt.Errorf("import: missing required table %q", ob.Name)
		}
		var records []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("import table %q: %w", ob.Name, err)
		}
		ids, err := a.AddParts(ob.Name, len(records))
		if err != nil {
			return nil, fmt.Errorf("import table %q: %w", ob.Name, err)
		}
		for ri, record := range records {
			if err := a.importRecord(ob.Name, ids[ri], record); err != nil {
				return nil, fmt.Errorf("import %s[%d]: %w", ob.Name, ri, err)
			}
		}
	}
	return a, nil
}

func (a *ACSet) importRecord(ob string, part int, record map[string]json.RawMessage) error {
	for field, raw := range record {
		prop := a.Schema.PropByName(field)
		if prop == nil || prop.PropDom() != ob {
			return fmt.Errorf("undeclared field %q", field)
		}
		// null means unset, matching export's omission of unset cells.
		if string(raw) == "null" {
			continue
		}
		v, err := UnmarshalValue(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		if _, isHom := prop.(*schema.Hom); isHom {
			n, ok := v.(Int)
			if !ok {
				return fmt.Errorf("field %q: morphism cell must be an integer", field)
			}
			v = n - 1 // wire form is one-indexed
		}
		if err := a.SetSubpart(part, field, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile reads and imports interchange JSON from path.
func ReadFile(name string, sch *schema.Schema, path string) (*ACSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	return Import(name, sch, data)
}

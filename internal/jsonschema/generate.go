// Package jsonschema generates JSON Schema documents from acset schemas and
// validates interchange documents against them.
//
// Generation covers what JSON Schema can express: field sets, field types,
// closed records, required tables. Referential integrity between tables has
// no JSON Schema construct, so validation layers a bounds check on top; see
// ValidateDocument.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// Draft is the JSON Schema dialect of generated schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Generate emits the JSON Schema for an acset schema. uri becomes the $id of
// the document and may be empty.
//
// Output is byte-deterministic: tables and fields appear in schema
// declaration order, two-space indent, trailing newline. Golden tests depend
// on this.
func Generate(s *schema.Schema, uri string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeKey(&buf, "$schema", true)
	writeString(&buf, Draft)
	if uri != "" {
		writeKey(&buf, "$id", false)
		writeString(&buf, uri)
	}
	writeKey(&buf, "title", false)
	writeString(&buf, s.Name)
	writeKey(&buf, "type", false)
	writeString(&buf, "object")

	writeKey(&buf, "properties", false)
	buf.WriteByte('{')
	for i, ob := range s.Obs {
		writeKey(&buf, ob.Name, i == 0)
		buf.WriteString(`{"type":"array","items":{"$ref":`)
		writeString(&buf, "#/$defs/"+ob.Name)
		buf.WriteString(`}}`)
	}
	buf.WriteByte('}')

	writeKey(&buf, "required", false)
	buf.WriteByte('[')
	for i, ob := range s.Obs {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, ob.Name)
	}
	buf.WriteByte(']')

	writeKey(&buf, "additionalProperties", false)
	buf.WriteString("false")

	writeKey(&buf, "$defs", false)
	buf.WriteByte('{')
	for i, ob := range s.Obs {
		writeKey(&buf, ob.Name, i == 0)
		if err := writeTableDef(&buf, s, &ob); err != nil {
			return nil, fmt.Errorf("generate %s: %w", ob.Name, err)
		}
	}
	buf.WriteByte('}')

	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeTableDef emits the record schema for one object's table.
func writeTableDef(buf *bytes.Buffer, s *schema.Schema, ob *schema.Ob) error {
	buf.WriteByte('{')
	writeKey(buf, "title", true)
	if ob.Title != "" {
		writeString(buf, ob.Title)
	} else {
		writeString(buf, ob.Name)
	}
	writeKey(buf, "type", false)
	writeString(buf, "object")

	writeKey(buf, "properties", false)
	buf.WriteByte('{')
	for i, prop := range s.PropsOut(ob.Name) {
		writeKey(buf, prop.PropName(), i == 0)
		switch p := prop.(type) {
		case *schema.Hom:
			// Wire references are one-indexed; the upper bound is a
			// referential concern JSON Schema cannot express.
			buf.WriteString(`{"type":"integer","minimum":1`)
			if p.Description != "" {
				writeKey(buf, "description", false)
				writeString(buf, p.Description)
			}
			buf.WriteByte('}')
		case *schema.Attr:
			ty, err := jsonType(s.AttrKind(p))
			if err != nil {
				return fmt.Errorf("attribute %q: %w", p.Name, err)
			}
			buf.WriteString(`{"type":`)
			writeString(buf, ty)
			if p.Description != "" {
				writeKey(buf, "description", false)
				writeString(buf, p.Description)
			}
			buf.WriteByte('}')
		}
	}
	buf.WriteByte('}')

	writeKey(buf, "additionalProperties", false)
	buf.WriteString("false")
	buf.WriteByte('}')
	return nil
}

// jsonType maps a value kind to its JSON Schema type name.
func jsonType(kind schema.ValueKind) (string, error) {
	switch kind {
	case schema.KindString:
		return "string", nil
	case schema.KindInt:
		return "integer", nil
	case schema.KindFloat:
		return "number", nil
	case schema.KindBool:
		return "boolean", nil
	case schema.KindObject:
		return "object", nil
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
}

func writeKey(buf *bytes.Buffer, key string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	writeString(buf, key)
	buf.WriteByte(':')
}

func writeString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}

package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// ValidateDocument checks a raw interchange document against an acset
// schema: structural conformance first (exactly the declared tables, closed
// records, field types), then referential integrity (every one-indexed
// morphism cell within the bounds of its codomain table).
//
// Returns all violations, not fail-fast. A non-nil error means the document
// is not parseable JSON at all.
func ValidateDocument(s *schema.Schema, data []byte) ([]schema.ValidationError, error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	var errs []schema.ValidationError

	for key := range doc {
		if s.ObByName(key) == nil {
			errs = append(errs, schema.ValidationError{
				Field:   key,
				Message: fmt.Sprintf("undeclared table for schema %q", s.Name),
			})
		}
	}

	// First pass: decode tables and record lengths, so the second pass can
	// bounds-check references.
	tables := make(map[string][]map[string]json.RawMessage, len(s.Obs))
	lengths := make(map[string]int, len(s.Obs))
	for _, ob := range s.Obs {
		raw, ok := doc[ob.Name]
		if !ok {
			errs = append(errs, schema.ValidationError{
				Field:   ob.Name,
				Message: "missing required table",
			})
			continue
		}
		var records []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			errs = append(errs, schema.ValidationError{
				Field:   ob.Name,
				Message: "must be an array of records",
			})
			continue
		}
		tables[ob.Name] = records
		lengths[ob.Name] = len(records)
	}

	for _, ob := range s.Obs {
		records, ok := tables[ob.Name]
		if !ok {
			continue
		}
		for ri, record := range records {
			errs = append(errs, checkRecord(s, &ob, ri, record, lengths)...)
		}
	}

	return errs, nil
}

func checkRecord(s *schema.Schema, ob *schema.Ob, ri int, record map[string]json.RawMessage, lengths map[string]int) []schema.ValidationError {
	var errs []schema.ValidationError
	at := func(field string) string {
		return fmt.Sprintf("%s[%d].%s", ob.Name, ri+1, field)
	}

	for field, raw := range record {
		prop := s.PropByName(field)
		if prop == nil || prop.PropDom() != ob.Name {
			errs = append(errs, schema.ValidationError{
				Field:   at(field),
				Message: "undeclared field",
			})
			continue
		}
		if string(raw) == "null" {
			continue // null is treated as unset
		}
		switch p := prop.(type) {
		case *schema.Hom:
			n, ok := decodeInt(raw)
			if !ok {
				errs = append(errs, schema.ValidationError{
					Field:   at(field),
					Message: "morphism cell must be an integer",
				})
				continue
			}
			limit := lengths[p.Codom]
			if n < 1 || int(n) > limit {
				errs = append(errs, schema.ValidationError{
					Field: at(field),
					Message: fmt.Sprintf("reference %d out of range for table %q (%d parts)",
						n, p.Codom, limit),
				})
			}
		case *schema.Attr:
			if msg := checkAttrCell(s.AttrKind(p), raw); msg != "" {
				errs = append(errs, schema.ValidationError{
					Field:   at(field),
					Message: msg,
				})
			}
		}
	}
	return errs
}

// checkAttrCell returns an error message when raw does not conform to the
// given kind, or "" when it does.
func checkAttrCell(kind schema.ValueKind, raw json.RawMessage) string {
	switch kind {
	case schema.KindString:
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return "must be a string"
		}
	case schema.KindInt:
		if _, ok := decodeInt(raw); !ok {
			return "must be an integer"
		}
	case schema.KindFloat:
		var f float64
		if json.Unmarshal(raw, &f) != nil || len(raw) == 0 || raw[0] == '"' {
			return "must be a number"
		}
	case schema.KindBool:
		var b bool
		if json.Unmarshal(raw, &b) != nil {
			return "must be a boolean"
		}
	case schema.KindObject:
		var o map[string]json.RawMessage
		if json.Unmarshal(raw, &o) != nil {
			return "must be an object"
		}
	default:
		return fmt.Sprintf("unknown kind %q", kind)
	}
	return ""
}

// decodeInt decodes raw as an integer, rejecting floats and strings.
func decodeInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

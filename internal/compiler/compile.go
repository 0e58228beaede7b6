// Package compiler parses CUE schema declarations into acset schemas.
//
// Schemas are authored as CUE structs under the top-level "schema" field:
//
//	schema: LabelledGraph: {
//		ob: V: {}
//		ob: E: {}
//		hom: src: {dom: "E", codom: "V"}
//		hom: tgt: {dom: "E", codom: "V"}
//		attrtype: Name: {ty: "string"}
//		attr: label: {dom: "V", codom: "Name"}
//	}
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess). Field iteration
// follows declaration order, which fixes table and column order in the
// compiled schema and therefore in every serialized instance.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// CompileSchema parses a CUE value into a validated schema.
// The value should be the schema struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`schema: Graph: { ... }`)
//	sch, err := CompileSchema(v.LookupPath(cue.ParsePath("schema.Graph")))
func CompileSchema(v cue.Value) (*schema.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// Schema name comes from the struct label (the path selector).
	name := ""
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}

	obs, err := parseObs(v)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, &CompileError{
			Field:   "ob",
			Message: "at least one object is required",
			Pos:     v.Pos(),
		}
	}

	homs, err := parseHoms(v)
	if err != nil {
		return nil, err
	}

	attrtypes, err := parseAttrTypes(v)
	if err != nil {
		return nil, err
	}

	attrs, err := parseAttrs(v)
	if err != nil {
		return nil, err
	}

	sch, err := schema.New(name, obs, homs, attrtypes, attrs)
	if err != nil {
		return nil, &CompileError{
			Field:   "schema",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return sch, nil
}

// parseObs extracts object declarations from the schema struct.
func parseObs(v cue.Value) ([]schema.Ob, error) {
	var obs []schema.Ob

	obVal := v.LookupPath(cue.ParsePath("ob"))
	if !obVal.Exists() {
		return obs, nil
	}

	iter, err := obVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		ob := schema.Ob{Name: iter.Label()}
		if err := parseDoc(iter.Value(), &ob.Title, &ob.Description); err != nil {
			return nil, err
		}
		obs = append(obs, ob)
	}
	return obs, nil
}

// parseHoms extracts morphism declarations from the schema struct.
func parseHoms(v cue.Value) ([]schema.Hom, error) {
	var homs []schema.Hom

	homVal := v.LookupPath(cue.ParsePath("hom"))
	if !homVal.Exists() {
		return homs, nil
	}

	iter, err := homVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		homName := iter.Label()
		homValue := iter.Value()

		hom := schema.Hom{Name: homName}
		dom, err := requireString(homValue, "dom", "hom."+homName)
		if err != nil {
			return nil, err
		}
		hom.Dom = dom
		codom, err := requireString(homValue, "codom", "hom."+homName)
		if err != nil {
			return nil, err
		}
		hom.Codom = codom
		if err := parseDoc(homValue, &hom.Title, &hom.Description); err != nil {
			return nil, err
		}
		homs = append(homs, hom)
	}
	return homs, nil
}

// parseAttrTypes extracts attribute type declarations from the schema struct.
func parseAttrTypes(v cue.Value) ([]schema.AttrType, error) {
	var attrtypes []schema.AttrType

	atVal := v.LookupPath(cue.ParsePath("attrtype"))
	if !atVal.Exists() {
		return attrtypes, nil
	}

	iter, err := atVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		atName := iter.Label()
		atValue := iter.Value()

		ty, err := requireString(atValue, "ty", "attrtype."+atName)
		if err != nil {
			return nil, err
		}
		kind := schema.ValueKind(ty)
		if !schema.ValidKinds[kind] {
			return nil, &CompileError{
				Field:   fmt.Sprintf("attrtype.%s.ty", atName),
				Message: fmt.Sprintf("invalid kind %q, must be one of: string, int, float, bool, object", ty),
				Pos:     atValue.Pos(),
			}
		}

		at := schema.AttrType{Name: atName, Kind: kind}
		if err := parseDoc(atValue, &at.Title, &at.Description); err != nil {
			return nil, err
		}
		attrtypes = append(attrtypes, at)
	}
	return attrtypes, nil
}

// parseAttrs extracts attribute declarations from the schema struct.
func parseAttrs(v cue.Value) ([]schema.Attr, error) {
	var attrs []schema.Attr

	attrVal := v.LookupPath(cue.ParsePath("attr"))
	if !attrVal.Exists() {
		return attrs, nil
	}

	iter, err := attrVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		attrName := iter.Label()
		attrValue := iter.Value()

		attr := schema.Attr{Name: attrName}
		dom, err := requireString(attrValue, "dom", "attr."+attrName)
		if err != nil {
			return nil, err
		}
		attr.Dom = dom
		codom, err := requireString(attrValue, "codom", "attr."+attrName)
		if err != nil {
			return nil, err
		}
		attr.Codom = codom
		if err := parseDoc(attrValue, &attr.Title, &attr.Description); err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// parseDoc reads the optional title and description fields of a declaration.
func parseDoc(v cue.Value, title, description *string) error {
	titleVal := v.LookupPath(cue.ParsePath("title"))
	if titleVal.Exists() {
		s, err := titleVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		*title = s
	}
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		s, err := descVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		*description = s
	}
	return nil
}

// requireString reads a required string field of a declaration.
func requireString(v cue.Value, field, context string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   context + "." + field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

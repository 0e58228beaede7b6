package schema

import (
	"fmt"
	"strings"
)

// ValueKind names the type an attribute cell may hold.
// NO "null" - absent cells are modeled by omission, not by a null kind.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
	KindBool   ValueKind = "bool"
	KindObject ValueKind = "object"
)

// ValidKinds defines the allowed kind strings for attribute types.
var ValidKinds = map[ValueKind]bool{
	KindString: true,
	KindInt:    true,
	KindFloat:  true,
	KindBool:   true,
	KindObject: true,
}

// Ob is an object in a schema. Each object names one table of an instance.
type Ob struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Hom is a morphism in a schema: a foreign-key column on the table for Dom
// whose cells reference rows of the table for Codom. Cell values are part
// indices, always integers.
type Hom struct {
	Name        string `json:"name"`
	Dom         string `json:"dom"`
	Codom       string `json:"codom"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// AttrType is the codomain of attributes. Acsets are polymorphic over
// attribute types in general; here each attrtype is pinned to a ValueKind.
type AttrType struct {
	Name        string    `json:"name"`
	Kind        ValueKind `json:"ty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Attr is an attribute in a schema: a data column on the table for Dom whose
// cells hold values of the attrtype named by Codom.
type Attr struct {
	Name        string `json:"name"`
	Dom         string `json:"dom"`
	Codom       string `json:"codom"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Property is a column of an instance table: either a Hom or an Attr.
type Property interface {
	PropName() string
	PropDom() string
}

func (h *Hom) PropName() string { return h.Name }
func (h *Hom) PropDom() string  { return h.Dom }

func (a *Attr) PropName() string { return a.Name }
func (a *Attr) PropDom() string  { return a.Dom }

// Schema is a validated acset schema with name-based lookup.
type Schema struct {
	Name      string
	Obs       []Ob
	Homs      []Hom
	AttrTypes []AttrType
	Attrs     []Attr

	obIdx       map[string]int
	homIdx      map[string]int
	attrTypeIdx map[string]int
	attrIdx     map[string]int
}

// New builds a Schema from its declaration, validating consistency.
// All validation errors are reported, not just the first.
func New(name string, obs []Ob, homs []Hom, attrtypes []AttrType, attrs []Attr) (*Schema, error) {
	s := &Schema{
		Name:      name,
		Obs:       obs,
		Homs:      homs,
		AttrTypes: attrtypes,
		Attrs:     attrs,
	}
	if errs := s.check(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("schema %q: %s", name, strings.Join(msgs, "; "))
	}
	s.buildIndexes()
	return s, nil
}

// MustNew is New for package-level schema declarations. Panics on a bad
// declaration, which is a programming error, not input.
func MustNew(name string, obs []Ob, homs []Hom, attrtypes []AttrType, attrs []Attr) *Schema {
	s, err := New(name, obs, homs, attrtypes, attrs)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) buildIndexes() {
	s.obIdx = make(map[string]int, len(s.Obs))
	for i, ob := range s.Obs {
		s.obIdx[ob.Name] = i
	}
	s.homIdx = make(map[string]int, len(s.Homs))
	for i, h := range s.Homs {
		s.homIdx[h.Name] = i
	}
	s.attrTypeIdx = make(map[string]int, len(s.AttrTypes))
	for i, at := range s.AttrTypes {
		s.attrTypeIdx[at.Name] = i
	}
	s.attrIdx = make(map[string]int, len(s.Attrs))
	for i, a := range s.Attrs {
		s.attrIdx[a.Name] = i
	}
}

// ObByName returns the object with the given name, or nil.
func (s *Schema) ObByName(name string) *Ob {
	if i, ok := s.obIdx[name]; ok {
		return &s.Obs[i]
	}
	return nil
}

// HomByName returns the morphism with the given name, or nil.
func (s *Schema) HomByName(name string) *Hom {
	if i, ok := s.homIdx[name]; ok {
		return &s.Homs[i]
	}
	return nil
}

// AttrTypeByName returns the attribute type with the given name, or nil.
func (s *Schema) AttrTypeByName(name string) *AttrType {
	if i, ok := s.attrTypeIdx[name]; ok {
		return &s.AttrTypes[i]
	}
	return nil
}

// AttrByName returns the attribute with the given name, or nil.
func (s *Schema) AttrByName(name string) *Attr {
	if i, ok := s.attrIdx[name]; ok {
		return &s.Attrs[i]
	}
	return nil
}

// PropByName returns the property (hom or attr) with the given name, or nil.
// Hom and attr names share a namespace; construction rejects collisions.
func (s *Schema) PropByName(name string) Property {
	if h := s.HomByName(name); h != nil {
		return h
	}
	if a := s.AttrByName(name); a != nil {
		return a
	}
	return nil
}

// ElementByName resolves any schema element (object, morphism, attribute
// type, or attribute) by name, in that precedence order. Returns nil if no
// element matches.
func (s *Schema) ElementByName(name string) any {
	if ob := s.ObByName(name); ob != nil {
		return ob
	}
	if h := s.HomByName(name); h != nil {
		return h
	}
	if at := s.AttrTypeByName(name); at != nil {
		return at
	}
	if a := s.AttrByName(name); a != nil {
		return a
	}
	return nil
}

// PropsOut returns all columns of the table for ob: morphisms first, then
// attributes, each in declaration order.
func (s *Schema) PropsOut(ob string) []Property {
	var props []Property
	for i := range s.Homs {
		if s.Homs[i].Dom == ob {
			props = append(props, &s.Homs[i])
		}
	}
	for i := range s.Attrs {
		if s.Attrs[i].Dom == ob {
			props = append(props, &s.Attrs[i])
		}
	}
	return props
}

// HomsOut returns the morphisms whose domain is ob, in declaration order.
func (s *Schema) HomsOut(ob string) []*Hom {
	var homs []*Hom
	for i := range s.Homs {
		if s.Homs[i].Dom == ob {
			homs = append(homs, &s.Homs[i])
		}
	}
	return homs
}

// AttrsOut returns the attributes whose domain is ob, in declaration order.
func (s *Schema) AttrsOut(ob string) []*Attr {
	var attrs []*Attr
	for i := range s.Attrs {
		if s.Attrs[i].Dom == ob {
			attrs = append(attrs, &s.Attrs[i])
		}
	}
	return attrs
}

// AttrKind returns the value kind of an attribute's codomain.
func (s *Schema) AttrKind(a *Attr) ValueKind {
	at := s.AttrTypeByName(a.Codom)
	if at == nil {
		// Unreachable for validated schemas.
		return ""
	}
	return at.Kind
}

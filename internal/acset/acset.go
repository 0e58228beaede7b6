package acset

import (
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// ACSet is an instance of a schema: one table per object, one sparse column
// per morphism and attribute.
//
// ACSet is not safe for concurrent mutation; callers that share an instance
// across goroutines must serialize writes themselves.
type ACSet struct {
	Name   string
	Schema *schema.Schema

	parts    map[string]int           // object name -> part count
	subparts map[string]map[int]Value // property name -> part -> cell value
}

// New creates an empty instance of the given schema.
func New(name string, sch *schema.Schema) *ACSet {
	a := &ACSet{
		Name:     name,
		Schema:   sch,
		parts:    make(map[string]int, len(sch.Obs)),
		subparts: make(map[string]map[int]Value, len(sch.Homs)+len(sch.Attrs)),
	}
	for _, ob := range sch.Obs {
		a.parts[ob.Name] = 0
	}
	for i := range sch.Homs {
		a.subparts[sch.Homs[i].Name] = make(map[int]Value)
	}
	for i := range sch.Attrs {
		a.subparts[sch.Attrs[i].Name] = make(map[int]Value)
	}
	return a
}

// AddParts appends n parts to the table for ob and returns their indices.
func (a *ACSet) AddParts(ob string, n int) ([]int, error) {
	if _, exists := a.parts[ob]; !exists {
		return nil, fmt.Errorf("add parts: unknown object %q in schema %q", ob, a.Schema.Name)
	}
	if n < 0 {
		return nil, fmt.Errorf("add parts: negative count %d", n)
	}
	first := a.parts[ob]
	a.parts[ob] = first + n
	ids := make([]int, n)
	for i := range ids {
		ids[i] = first + i
	}
	return ids, nil
}

// AddPart appends a single part to the table for ob and returns its index.
func (a *ACSet) AddPart(ob string) (int, error) {
	ids, err := a.AddParts(ob, 1)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// NParts returns the number of parts in the table for ob.
// Unknown objects have zero parts.
func (a *ACSet) NParts(ob string) int {
	return a.parts[ob]
}

// Parts returns the indices of every part in the table for ob.
func (a *ACSet) Parts(ob string) []int {
	n := a.parts[ob]
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// SetSubpart sets the cell of property prop on part i. The value is
// type-checked against the schema: morphism cells take Int, attribute cells
// take their attrtype's kind. Int is accepted for float attributes and
// widened.
//
// Bounds of morphism cells are a validation concern (Validate), not a
// mutation concern: a hom cell may temporarily dangle while an instance is
// under construction.
func (a *ACSet) SetSubpart(i int, prop string, v Value) error {
	cells, exists := a.subparts[prop]
	if !exists {
		return fmt.Errorf("set subpart: unknown property %q in schema %q", prop, a.Schema.Name)
	}
	if i < 0 || i >= a.parts[a.Schema.PropByName(prop).PropDom()] {
		return fmt.Errorf("set subpart: part %d out of range for %q", i, prop)
	}
	checked, err := a.checkValue(prop, v)
	if err != nil {
		return fmt.Errorf("set subpart %q[%d]: %w", prop, i, err)
	}
	cells[i] = checked
	return nil
}

// ClearSubpart removes the cell of property prop on part i, leaving it
// unset. Clearing an already-unset cell is a no-op.
func (a *ACSet) ClearSubpart(i int, prop string) error {
	cells, exists := a.subparts[prop]
	if !exists {
		return fmt.Errorf("clear subpart: unknown property %q in schema %q", prop, a.Schema.Name)
	}
	delete(cells, i)
	return nil
}

// Subpart returns the cell of property prop on part i.
// The second result is false when the cell is unset.
func (a *ACSet) Subpart(i int, prop string) (Value, bool) {
	cells, exists := a.subparts[prop]
	if !exists {
		return nil, false
	}
	v, ok := cells[i]
	return v, ok
}

// HasSubpart reports whether the cell of property prop on part i is set.
func (a *ACSet) HasSubpart(i int, prop string) bool {
	_, ok := a.Subpart(i, prop)
	return ok
}

// Ref reads a morphism cell as a part index.
// The second result is false when the cell is unset.
func (a *ACSet) Ref(i int, hom string) (int, bool) {
	v, ok := a.Subpart(i, hom)
	if !ok {
		return 0, false
	}
	n, ok := v.(Int)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Incident returns the parts of prop's domain whose cell equals v, in
// ascending part order. Equality is structural for Obj and List cells.
func (a *ACSet) Incident(v Value, prop string) ([]int, error) {
	p := a.Schema.PropByName(prop)
	if p == nil {
		return nil, fmt.Errorf("incident: unknown property %q in schema %q", prop, a.Schema.Name)
	}
	want, err := a.checkValue(prop, v)
	if err != nil {
		return nil, fmt.Errorf("incident %q: %w", prop, err)
	}
	var hits []int
	for i := 0; i < a.parts[p.PropDom()]; i++ {
		got, ok := a.subparts[prop][i]
		if ok && equalValues(got, want) {
			hits = append(hits, i)
		}
	}
	return hits, nil
}

// PropDict returns the set cells of part i in the table for ob, keyed by
// property name, with morphism cells one-indexed. This is the wire view of a
// single record.
func (a *ACSet) PropDict(ob string, i int) map[string]Value {
	dict := make(map[string]Value)
	for _, prop := range a.Schema.PropsOut(ob) {
		v, ok := a.subparts[prop.PropName()][i]
		if !ok {
			continue
		}
		if _, isHom := prop.(*schema.Hom); isHom {
			v = v.(Int) + 1
		}
		dict[prop.PropName()] = v
	}
	return dict
}

// checkValue type-checks v against prop and returns the (possibly widened)
// value to store.
func (a *ACSet) checkValue(prop string, v Value) (Value, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value; use ClearSubpart to unset a cell")
	}
	switch p := a.Schema.PropByName(prop).(type) {
	case *schema.Hom:
		n, ok := v.(Int)
		if !ok {
			return nil, fmt.Errorf("morphism cell requires Int, got %T", v)
		}
		return n, nil
	case *schema.Attr:
		return checkKind(a.Schema.AttrKind(p), v)
	default:
		return nil, fmt.Errorf("unknown property %q", prop)
	}
}

func checkKind(kind schema.ValueKind, v Value) (Value, error) {
	switch kind {
	case schema.KindString:
		if s, ok := v.(Str); ok {
			return s, nil
		}
	case schema.KindInt:
		if n, ok := v.(Int); ok {
			return n, nil
		}
	case schema.KindFloat:
		switch n := v.(type) {
		case Float:
			return n, nil
		case Int:
			return Float(n), nil
		}
	case schema.KindBool:
		if b, ok := v.(Bool); ok {
			return b, nil
		}
	case schema.KindObject:
		if o, ok := v.(Obj); ok {
			return o, nil
		}
	}
	return nil, fmt.Errorf("attribute cell requires %s, got %T", kind, v)
}

// equalValues compares two cell values structurally.
func equalValues(a, b Value) bool {
	switch av := a.(type) {
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Obj:
		bv, ok := b.(Obj)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !equalValues(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

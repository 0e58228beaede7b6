// Package decapode defines the SummationDecapode schema: a diagrammatic
// representation of a system of partial differential equations as a graph
// of variables and operators.
//
// Tables:
//
//	Var     - named, typed variables
//	TVar    - designated time-derivative variables (incl -> Var)
//	Op1     - unary operator edges (src, tgt -> Var)
//	Op2     - binary operator edges (proj1, proj2, res -> Var)
//	Σ       - summation nodes (sum -> Var, the variable holding the total)
//	Summand - membership edges linking variables into a summation
//
// The Σ table key is the literal non-ASCII string "Σ" on the wire.
package decapode

import (
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// Object and property names of the SummationDecapode schema.
const (
	ObVar     = "Var"
	ObTVar    = "TVar"
	ObOp1     = "Op1"
	ObOp2     = "Op2"
	ObSigma   = "Σ"
	ObSummand = "Summand"

	HomIncl      = "incl"
	HomSrc       = "src"
	HomTgt       = "tgt"
	HomProj1     = "proj1"
	HomProj2     = "proj2"
	HomRes       = "res"
	HomSum       = "sum"
	HomSummand   = "summand"
	HomSummation = "summation"

	AttrName = "name"
	AttrType = "type"
	AttrOp1  = "op1"
	AttrOp2  = "op2"
)

// SchSummationDecapode is the interchange schema for summation decapodes.
var SchSummationDecapode = schema.MustNew("SummationDecapode",
	[]schema.Ob{
		{Name: ObVar, Title: "Variable"},
		{Name: ObTVar, Title: "Time variable"},
		{Name: ObOp1, Title: "Unary operator"},
		{Name: ObOp2, Title: "Binary operator"},
		{Name: ObSigma, Title: "Summation"},
		{Name: ObSummand, Title: "Summand"},
	},
	[]schema.Hom{
		{Name: HomIncl, Dom: ObTVar, Codom: ObVar, Title: "Time variable inclusion"},
		{Name: HomSrc, Dom: ObOp1, Codom: ObVar, Title: "Operator source"},
		{Name: HomTgt, Dom: ObOp1, Codom: ObVar, Title: "Operator target"},
		{Name: HomProj1, Dom: ObOp2, Codom: ObVar, Title: "First operand"},
		{Name: HomProj2, Dom: ObOp2, Codom: ObVar, Title: "Second operand"},
		{Name: HomRes, Dom: ObOp2, Codom: ObVar, Title: "Operator result"},
		{Name: HomSum, Dom: ObSigma, Codom: ObVar, Title: "Summation total"},
		{Name: HomSummand, Dom: ObSummand, Codom: ObVar, Title: "Summand variable"},
		{Name: HomSummation, Dom: ObSummand, Codom: ObSigma, Title: "Summand membership"},
	},
	[]schema.AttrType{
		{Name: "Name", Kind: schema.KindString, Title: "Name"},
		{Name: "Type", Kind: schema.KindString, Title: "Type"},
	},
	[]schema.Attr{
		{Name: AttrName, Dom: ObVar, Codom: "Name", Title: "Variable name"},
		{Name: AttrType, Dom: ObVar, Codom: "Type", Title: "Variable type"},
		{Name: AttrOp1, Dom: ObOp1, Codom: "Name", Title: "Unary operator name"},
		{Name: AttrOp2, Dom: ObOp2, Codom: "Name", Title: "Binary operator name"},
	},
)

// Decapode wraps an acset instance with decapode building operations.
// All part arguments and results are zero-indexed, like the rest of the
// in-memory API.
type Decapode struct {
	*acset.ACSet
}

// New creates an empty summation decapode.
func New(name string) *Decapode {
	return &Decapode{ACSet: acset.New(name, SchSummationDecapode)}
}

// AddVariable adds a variable with the given name and type tag and returns
// its part index.
func (d *Decapode) AddVariable(name, typ string) (int, error) {
	v, err := d.AddPart(ObVar)
	if err != nil {
		return 0, err
	}
	if err := d.SetSubpart(v, AttrName, acset.Str(name)); err != nil {
		return 0, fmt.Errorf("add variable %q: %w", name, err)
	}
	if err := d.SetSubpart(v, AttrType, acset.Str(typ)); err != nil {
		return 0, fmt.Errorf("add variable %q: %w", name, err)
	}
	return v, nil
}

// MarkTVar designates the variable v as a time-derivative target and
// returns the TVar part index.
func (d *Decapode) MarkTVar(v int) (int, error) {
	t, err := d.AddPart(ObTVar)
	if err != nil {
		return 0, err
	}
	if err := d.SetSubpart(t, HomIncl, acset.Int(v)); err != nil {
		return 0, fmt.Errorf("mark tvar: %w", err)
	}
	return t, nil
}

// AddOp1 adds a unary operator edge op: src -> tgt and returns its part
// index.
func (d *Decapode) AddOp1(op string, src, tgt int) (int, error) {
	e, err := d.AddPart(ObOp1)
	if err != nil {
		return 0, err
	}
	if err := d.SetSubpart(e, AttrOp1, acset.Str(op)); err != nil {
		return 0, fmt.Errorf("add op1 %q: %w", op, err)
	}
	if err := d.SetSubpart(e, HomSrc, acset.Int(src)); err != nil {
		return 0, fmt.Errorf("add op1 %q: %w", op, err)
	}
	if err := d.SetSubpart(e, HomTgt, acset.Int(tgt)); err != nil {
		return 0, fmt.Errorf("add op1 %q: %w", op, err)
	}
	return e, nil
}

// AddOp2 adds a binary operator edge op: (proj1, proj2) -> res and returns
// its part index.
func (d *Decapode) AddOp2(op string, proj1, proj2, res int) (int, error) {
	e, err := d.AddPart(ObOp2)
	if err != nil {
		return 0, err
	}
	if err := d.SetSubpart(e, AttrOp2, acset.Str(op)); err != nil {
		return 0, fmt.Errorf("add op2 %q: %w", op, err)
	}
	if err := d.SetSubpart(e, HomProj1, acset.Int(proj1)); err != nil {
		return 0, fmt.Errorf("add op2 %q: %w", op, err)
	}
	if err := d.SetSubpart(e, HomProj2, acset.Int(proj2)); err != nil {
		return 0, fmt.Errorf("add op2 %q: %w", op, err)
	}
	if err := d.SetSubpart(e, HomRes, acset.Int(res)); err != nil {
		return 0, fmt.Errorf("add op2 %q: %w", op, err)
	}
	return e, nil
}

// AddSummation adds a summation node whose total is the variable result and
// whose members are the summand variables. Returns the Σ part index.
func (d *Decapode) AddSummation(result int, summands []int) (int, error) {
	sig, err := d.AddPart(ObSigma)
	if err != nil {
		return 0, err
	}
	if err := d.SetSubpart(sig, HomSum, acset.Int(result)); err != nil {
		return 0, fmt.Errorf("add summation: %w", err)
	}
	for _, s := range summands {
		m, err := d.AddPart(ObSummand)
		if err != nil {
			return 0, err
		}
		if err := d.SetSubpart(m, HomSummand, acset.Int(s)); err != nil {
			return 0, fmt.Errorf("add summation: %w", err)
		}
		if err := d.SetSubpart(m, HomSummation, acset.Int(sig)); err != nil {
			return 0, fmt.Errorf("add summation: %w", err)
		}
	}
	return sig, nil
}

// Summands returns the variables participating in the summation sig, in
// membership order.
func (d *Decapode) Summands(sig int) ([]int, error) {
	members, err := d.Incident(acset.Int(sig), HomSummation)
	if err != nil {
		return nil, err
	}
	vars := make([]int, 0, len(members))
	for _, m := range members {
		if v, ok := d.Ref(m, HomSummand); ok {
			vars = append(vars, v)
		}
	}
	return vars, nil
}

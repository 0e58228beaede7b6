// Package testutil provides shared model fixtures for tests.
package testutil

import (
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/decapode"
	"github.com/AlgebraicJulia/go-acsets/internal/petri"
	"github.com/AlgebraicJulia/go-acsets/internal/stockflow"
)

// SIRPetri builds the SIR epidemic model as a labelled reaction net:
// three species, an infection transition S+I -> 2I and a recovery
// transition I -> R. Construction is deterministic, so exports and
// hashes of the fixture are stable across runs.
func SIRPetri() *petri.Petri {
	sir := petri.New("sir", petri.SchLabelledReactionNet)

	species, err := sir.AddSpecies(3)
	check(err)
	s, i, r := species[0], species[1], species[2]
	setAttr(sir.ACSet, s, petri.AttrSName, acset.Str("S"))
	setAttr(sir.ACSet, i, petri.AttrSName, acset.Str("I"))
	setAttr(sir.ACSet, r, petri.AttrSName, acset.Str("R"))
	setAttr(sir.ACSet, s, petri.AttrConcentration, acset.Float(0.99))
	setAttr(sir.ACSet, i, petri.AttrConcentration, acset.Float(0.01))
	setAttr(sir.ACSet, r, petri.AttrConcentration, acset.Float(0))

	ts, err := sir.AddTransitions([]petri.Transition{
		{Inputs: []int{s, i}, Outputs: []int{i, i}},
		{Inputs: []int{i}, Outputs: []int{r}},
	})
	check(err)
	inf, rec := ts[0], ts[1]
	setAttr(sir.ACSet, inf, petri.AttrTName, acset.Str("inf"))
	setAttr(sir.ACSet, rec, petri.AttrTName, acset.Str("rec"))
	setAttr(sir.ACSet, inf, petri.AttrRate, acset.Float(0.5))
	setAttr(sir.ACSet, rec, petri.AttrRate, acset.Float(0.25))

	return sir
}

// BarePetri builds the same SIR shape over the unlabelled PetriNet
// schema: no attributes, structure only.
func BarePetri() *petri.Petri {
	sir := petri.New("sir", petri.SchPetriNet)
	species, err := sir.AddSpecies(3)
	check(err)
	s, i, r := species[0], species[1], species[2]
	_, err = sir.AddTransitions([]petri.Transition{
		{Inputs: []int{s, i}, Outputs: []int{i, i}},
		{Inputs: []int{i}, Outputs: []int{r}},
	})
	check(err)
	return sir
}

// DiffusionDecapode builds a small diffusion equation as a summation
// decapode:
//
//	C:Form0, Ċ:Form0, ϕ:Form1, sum of two first-order terms.
//
// Ċ is the time derivative of C, ϕ = ♯(∇(C)), and Ċ is the sum of the
// divergence of ϕ with a decay term.
func DiffusionDecapode() *decapode.Decapode {
	d := decapode.New("diffusion")

	c, err := d.AddVariable("C", "Form0")
	check(err)
	cdot, err := d.AddVariable("Ċ", "Form0")
	check(err)
	phi, err := d.AddVariable("ϕ", "Form1")
	check(err)
	div, err := d.AddVariable("divϕ", "Form0")
	check(err)
	decay, err := d.AddVariable("decay", "Form0")
	check(err)

	_, err = d.MarkTVar(cdot)
	check(err)
	_, err = d.AddOp1("∂ₜ", c, cdot)
	check(err)
	_, err = d.AddOp1("♯∇", c, phi)
	check(err)
	_, err = d.AddOp1("∇⋅", phi, div)
	check(err)
	_, err = d.AddOp2("*", c, div, decay)
	check(err)
	_, err = d.AddSummation(cdot, []int{div, decay})
	check(err)

	return d
}

// SIRStockFlow builds the SIR model as a stock-and-flow diagram. Rate
// expressions use the u. stock and p. parameter prefixes the AMR
// conversion expects.
func SIRStockFlow() *acset.ACSet {
	acs := acset.New("sir", stockflow.SchStockFlow)

	stocks, err := acs.AddParts(stockflow.ObStock, 3)
	check(err)
	s, i, r := stocks[0], stocks[1], stocks[2]
	setAttr(acs, s, stockflow.AttrSName, acset.Str("S"))
	setAttr(acs, i, stockflow.AttrSName, acset.Str("I"))
	setAttr(acs, r, stockflow.AttrSName, acset.Str("R"))

	flows, err := acs.AddParts(stockflow.ObFlow, 2)
	check(err)
	inf, rec := flows[0], flows[1]
	setAttr(acs, inf, stockflow.AttrFName, acset.Str("inf"))
	setAttr(acs, inf, stockflow.AttrRate, acset.Str("p.cbeta*u.S*u.I/p.N"))
	setHom(acs, inf, stockflow.HomUp, s)
	setHom(acs, inf, stockflow.HomDown, i)
	setAttr(acs, rec, stockflow.AttrFName, acset.Str("rec"))
	setAttr(acs, rec, stockflow.AttrRate, acset.Str("u.I/p.tr"))
	setHom(acs, rec, stockflow.HomUp, i)
	setHom(acs, rec, stockflow.HomDown, r)

	links, err := acs.AddParts(stockflow.ObLink, 3)
	check(err)
	setHom(acs, links[0], stockflow.HomSrc, s)
	setHom(acs, links[0], stockflow.HomTgt, inf)
	setHom(acs, links[1], stockflow.HomSrc, i)
	setHom(acs, links[1], stockflow.HomTgt, inf)
	setHom(acs, links[2], stockflow.HomSrc, i)
	setHom(acs, links[2], stockflow.HomTgt, rec)

	return acs
}

func setAttr(acs *acset.ACSet, part int, prop string, v acset.Value) {
	check(acs.SetSubpart(part, prop, v))
}

func setHom(acs *acset.ACSet, part int, hom string, target int) {
	check(acs.SetSubpart(part, hom, acset.Int(int64(target))))
}

func check(err error) {
	if err != nil {
		panic(fmt.Sprintf("building fixture: %v", err))
	}
}

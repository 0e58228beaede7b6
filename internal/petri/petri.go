// Package petri defines the Petri-net schema family and a convenience
// builder over acset instances.
//
// The family shares four objects (species, transitions, and the input/output
// arcs between them) and varies only in its attributes: plain, labelled,
// reaction-rate, and property-bag variants in every combination.
package petri

import (
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// Object and property names shared by every schema in the family.
const (
	ObSpecies    = "S"
	ObTransition = "T"
	ObInput      = "I"
	ObOutput     = "O"

	HomIT = "it" // input arc -> transition
	HomIS = "is" // input arc -> species
	HomOT = "ot" // output arc -> transition
	HomOS = "os" // output arc -> species

	AttrSName         = "sname"
	AttrTName         = "tname"
	AttrConcentration = "concentration"
	AttrRate          = "rate"
	AttrSProp         = "sprop"
	AttrTProp         = "tprop"
)

var petriObs = []schema.Ob{
	{Name: ObSpecies, Title: "Species"},
	{Name: ObTransition, Title: "Transition"},
	{Name: ObInput, Title: "Input"},
	{Name: ObOutput, Title: "Output"},
}

var petriHoms = []schema.Hom{
	{Name: HomIT, Dom: ObInput, Codom: ObTransition, Title: "Input transition morphism"},
	{Name: HomIS, Dom: ObInput, Codom: ObSpecies, Title: "Input species morphism"},
	{Name: HomOT, Dom: ObOutput, Codom: ObTransition, Title: "Output transition morphism"},
	{Name: HomOS, Dom: ObOutput, Codom: ObSpecies, Title: "Output species morphism"},
}

var (
	labelledTypes = []schema.AttrType{
		{Name: "Name", Kind: schema.KindString, Title: "Name"},
	}
	labelledAttrs = []schema.Attr{
		{Name: AttrSName, Dom: ObSpecies, Codom: "Name", Title: "Species name",
			Description: "An attribute representing the name of a species."},
		{Name: AttrTName, Dom: ObTransition, Codom: "Name", Title: "Transition name",
			Description: "An attribute representing the name of a transition."},
	}

	reactionTypes = []schema.AttrType{
		{Name: "Concentration", Kind: schema.KindFloat, Title: "Concentration"},
		{Name: "Rate", Kind: schema.KindFloat, Title: "Rate"},
	}
	reactionAttrs = []schema.Attr{
		{Name: AttrConcentration, Dom: ObSpecies, Codom: "Concentration", Title: "Species concentration",
			Description: "An attribute representing the concentration of a species."},
		{Name: AttrRate, Dom: ObTransition, Codom: "Rate", Title: "Transition rate",
			Description: "An attribute representing the rate of a transition."},
	}

	propTypes = []schema.AttrType{
		{Name: "Prop", Kind: schema.KindObject, Title: "Property"},
	}
	propAttrs = []schema.Attr{
		{Name: AttrSProp, Dom: ObSpecies, Codom: "Prop", Title: "Species properties",
			Description: "An attribute representing the properties of a species."},
		{Name: AttrTProp, Dom: ObTransition, Codom: "Prop", Title: "Transition properties",
			Description: "An attribute representing the properties of a transition."},
	}
)

func concatTypes(lists ...[]schema.AttrType) []schema.AttrType {
	var out []schema.AttrType
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func concatAttrs(lists ...[]schema.Attr) []schema.Attr {
	var out []schema.Attr
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// The eight schemas of the family.
var (
	SchPetriNet         = schema.MustNew("PetriNet", petriObs, petriHoms, nil, nil)
	SchLabelledPetriNet = schema.MustNew("LabelledPetriNet", petriObs, petriHoms,
		labelledTypes, labelledAttrs)
	SchReactionNet = schema.MustNew("ReactionNet", petriObs, petriHoms,
		reactionTypes, reactionAttrs)
	SchLabelledReactionNet = schema.MustNew("LabelledReactionNet", petriObs, petriHoms,
		concatTypes(labelledTypes, reactionTypes), concatAttrs(labelledAttrs, reactionAttrs))
	SchPropertyPetriNet = schema.MustNew("PropertyPetriNet", petriObs, petriHoms,
		propTypes, propAttrs)
	SchPropertyLabelledPetriNet = schema.MustNew("PropertyLabelledPetriNet", petriObs, petriHoms,
		concatTypes(labelledTypes, propTypes), concatAttrs(labelledAttrs, propAttrs))
	SchPropertyReactionNet = schema.MustNew("PropertyReactionNet", petriObs, petriHoms,
		concatTypes(reactionTypes, propTypes), concatAttrs(reactionAttrs, propAttrs))
	SchPropertyLabelledReactionNet = schema.MustNew("PropertyLabelledReactionNet", petriObs, petriHoms,
		concatTypes(labelledTypes, reactionTypes, propTypes),
		concatAttrs(labelledAttrs, reactionAttrs, propAttrs))
)

// Transition pairs input species with output species for AddTransitions.
type Transition struct {
	Inputs  []int
	Outputs []int
}

// Petri wraps an acset instance with Petri-net building operations.
//
//	sir := petri.New("sir", petri.SchLabelledReactionNet)
//	species, _ := sir.AddSpecies(3)
//	sir.SetSubpart(species[0], petri.AttrSName, acset.Str("susceptible"))
//	ts, _ := sir.AddTransitions([]petri.Transition{
//		{Inputs: []int{species[0], species[1]}, Outputs: []int{species[1], species[1]}},
//	})
//	sir.SetSubpart(ts[0], petri.AttrTName, acset.Str("infection"))
type Petri struct {
	*acset.ACSet
}

// New creates an empty Petri net over one of the family's schemas.
func New(name string, sch *schema.Schema) *Petri {
	return &Petri{ACSet: acset.New(name, sch)}
}

// AddSpecies adds n species and returns their part indices.
func (p *Petri) AddSpecies(n int) ([]int, error) {
	return p.AddParts(ObSpecies, n)
}

// AddTransitions adds transitions with their input and output arcs.
// Returns the part indices of the new transitions.
func (p *Petri) AddTransitions(transitions []Transition) ([]int, error) {
	ts, err := p.AddParts(ObTransition, len(transitions))
	if err != nil {
		return nil, err
	}
	for ti, tr := range transitions {
		t := ts[ti]
		for _, s := range tr.Inputs {
			arc, err := p.AddPart(ObInput)
			if err != nil {
				return nil, err
			}
			if err := p.SetSubpart(arc, HomIT, acset.Int(t)); err != nil {
				return nil, fmt.Errorf("add transition %d: %w", ti, err)
			}
			if err := p.SetSubpart(arc, HomIS, acset.Int(s)); err != nil {
				return nil, fmt.Errorf("add transition %d: %w", ti, err)
			}
		}
		for _, s := range tr.Outputs {
			arc, err := p.AddPart(ObOutput)
			if err != nil {
				return nil, err
			}
			if err := p.SetSubpart(arc, HomOT, acset.Int(t)); err != nil {
				return nil, fmt.Errorf("add transition %d: %w", ti, err)
			}
			if err := p.SetSubpart(arc, HomOS, acset.Int(s)); err != nil {
				return nil, fmt.Errorf("add transition %d: %w", ti, err)
			}
		}
	}
	return ts, nil
}

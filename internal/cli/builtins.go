package cli

import (
	"sort"

	"github.com/AlgebraicJulia/go-acsets/internal/decapode"
	"github.com/AlgebraicJulia/go-acsets/internal/petri"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
	"github.com/AlgebraicJulia/go-acsets/internal/stockflow"
)

// builtinSchemas maps schema names to the library's predefined schemas.
var builtinSchemas = map[string]*schema.Schema{
	petri.SchPetriNet.Name:                    petri.SchPetriNet,
	petri.SchLabelledPetriNet.Name:            petri.SchLabelledPetriNet,
	petri.SchReactionNet.Name:                 petri.SchReactionNet,
	petri.SchLabelledReactionNet.Name:         petri.SchLabelledReactionNet,
	petri.SchPropertyPetriNet.Name:            petri.SchPropertyPetriNet,
	petri.SchPropertyLabelledPetriNet.Name:    petri.SchPropertyLabelledPetriNet,
	petri.SchPropertyReactionNet.Name:         petri.SchPropertyReactionNet,
	petri.SchPropertyLabelledReactionNet.Name: petri.SchPropertyLabelledReactionNet,
	petri.SchMiraNet.Name:                     petri.SchMiraNet,
	decapode.SchSummationDecapode.Name:        decapode.SchSummationDecapode,
	stockflow.SchStockFlow.Name:               stockflow.SchStockFlow,
}

// BuiltinSchema resolves a predefined schema by name.
func BuiltinSchema(name string) (*schema.Schema, bool) {
	s, ok := builtinSchemas[name]
	return s, ok
}

// BuiltinSchemaNames returns the names of all predefined schemas, sorted.
func BuiltinSchemaNames() []string {
	names := make([]string, 0, len(builtinSchemas))
	for name := range builtinSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package petri

import "github.com/AlgebraicJulia/go-acsets/internal/schema"

// MiraNet extends the Petri-net shape with MIRA metadata: template and
// parameter payloads on transitions, identity and context payloads on
// species. Payload attributes hold serialized JSON, MathML, or SymPy text,
// so their attrtypes are all string-kinded except the numeric values.
var SchMiraNet = schema.MustNew("MiraNet",
	petriObs,
	petriHoms,
	[]schema.AttrType{
		{Name: "Name", Kind: schema.KindString},
		{Name: "Value", Kind: schema.KindFloat},
		{Name: "JsonStr", Kind: schema.KindString},
		{Name: "XmlStr", Kind: schema.KindString},
		{Name: "SymPyStr", Kind: schema.KindString},
	},
	[]schema.Attr{
		{Name: "sname", Dom: ObSpecies, Codom: "Name"},
		{Name: "tname", Dom: ObTransition, Codom: "Name"},
		{Name: "parameter_name", Dom: ObTransition, Codom: "Name"},
		{Name: "parameter_value", Dom: ObTransition, Codom: "Value"},
		{Name: "mira_ids", Dom: ObSpecies, Codom: "JsonStr"},
		{Name: "mira_context", Dom: ObSpecies, Codom: "JsonStr"},
		{Name: "mira_concept", Dom: ObSpecies, Codom: "JsonStr"},
		{Name: "mira_initial_value", Dom: ObSpecies, Codom: "Value"},
		{Name: "template_type", Dom: ObTransition, Codom: "Name"},
		{Name: "mira_rate_law", Dom: ObTransition, Codom: "SymPyStr"},
		{Name: "mira_rate_law_mathml", Dom: ObTransition, Codom: "XmlStr"},
		{Name: "mira_template", Dom: ObTransition, Codom: "JsonStr"},
		{Name: "mira_parameters", Dom: ObTransition, Codom: "JsonStr"},
	},
)

// NewMira creates an empty MiraNet instance.
func NewMira(name string) *Petri {
	return New(name, SchMiraNet)
}

// Package stockflow defines the stock-and-flow diagram schema and its
// conversion to and from the ASKEM AMR (ASKEM Model Representation) format.
package stockflow

import "github.com/AlgebraicJulia/go-acsets/internal/schema"

// Object and property names of the StockFlow schema.
const (
	ObStock = "Stock"
	ObFlow  = "Flow"
	ObLink  = "Link"

	HomUp   = "u" // flow -> upstream stock
	HomDown = "d" // flow -> downstream stock
	HomSrc  = "s" // link -> source stock
	HomTgt  = "t" // link -> target flow

	AttrSName = "sname"
	AttrFName = "fname"
	AttrRate  = "ϕf" // rate expression text
)

// SchStockFlow is the interchange schema for stock-and-flow diagrams.
// The rate expression is stored as text; its symbols reference stocks and
// parameters by name.
var SchStockFlow = schema.MustNew("StockFlow",
	[]schema.Ob{
		{Name: ObStock, Title: "Stock"},
		{Name: ObFlow, Title: "Flow"},
		{Name: ObLink, Title: "Link"},
	},
	[]schema.Hom{
		{Name: HomUp, Dom: ObFlow, Codom: ObStock, Title: "Upstream stock"},
		{Name: HomDown, Dom: ObFlow, Codom: ObStock, Title: "Downstream stock"},
		{Name: HomSrc, Dom: ObLink, Codom: ObStock, Title: "Link source"},
		{Name: HomTgt, Dom: ObLink, Codom: ObFlow, Title: "Link target"},
	},
	[]schema.AttrType{
		{Name: "Name", Kind: schema.KindString, Title: "Name"},
	},
	[]schema.Attr{
		{Name: AttrSName, Dom: ObStock, Codom: "Name", Title: "Stock name"},
		{Name: AttrFName, Dom: ObFlow, Codom: "Name", Title: "Flow name"},
		{Name: AttrRate, Dom: ObFlow, Codom: "Name", Title: "Flow rate expression"},
	},
)

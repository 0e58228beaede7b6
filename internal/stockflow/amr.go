package stockflow

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
)

// AMR is a stock-and-flow model in the ASKEM Model Representation format.
type AMR struct {
	Header    Header    `json:"header"`
	Model     Model     `json:"model"`
	Semantics Semantics `json:"semantics"`
	Metadata  any       `json:"metadata"`
}

// Header identifies an AMR model.
type Header struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Schema       string `json:"schema"`
	Description  string `json:"description"`
	SchemaName   string `json:"schema_name"`
	ModelVersion string `json:"model_version"`
}

// Model holds the structural part of an AMR stock-and-flow model.
type Model struct {
	Flows       []AMRFlow      `json:"flows"`
	Stocks      []AMRStock     `json:"stocks"`
	Auxiliaries []AMRAuxiliary `json:"auxiliaries"`
	Links       []AMRLink      `json:"links"`
}

// AMRFlow is a flow between two stocks with a rate expression.
type AMRFlow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	UpstreamStock   string `json:"upstream_stock"`
	DownstreamStock string `json:"downstream_stock"`
	RateExpression  string `json:"rate_expression"`
}

// AMRStock is a named stock.
type AMRStock struct {
	ID string `json:"id"`
}

// AMRAuxiliary is a named auxiliary expression.
type AMRAuxiliary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// AMRLink connects a stock or parameter to the flow that reads it.
type AMRLink struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Semantics holds the ODE semantics of an AMR model.
type Semantics struct {
	ODE ODESemantics `json:"ode"`
}

// ODESemantics lists parameters, initial conditions, and observables.
type ODESemantics struct {
	Parameters  []AMRParameter `json:"parameters"`
	Initials    []AMRInitial   `json:"initials"`
	Observables []any          `json:"observables"`
	Time        any            `json:"time"`
}

// AMRParameter is a named model parameter.
type AMRParameter struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AMRInitial sets the initial condition of a stock.
type AMRInitial struct {
	Target     string `json:"target"`
	Expression string `json:"expression"`
}

// operandPattern matches the operands of a rate expression: bare names and
// dotted names like "p.beta" or "u.S".
var operandPattern = regexp.MustCompile(`\b\w+(?:\.\w+)*\b`)

// isNumber reports whether an operand is a numeric literal.
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// normalizeOperand strips the "p."/"u." symbol prefixes used by prefixed
// rate expressions, returning the bare name.
func normalizeOperand(op string) string {
	if rest, ok := strings.CutPrefix(op, "p."); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(op, "u."); ok {
		return rest
	}
	return op
}

// prefixRateExpression rewrites the bare operands of an AMR rate expression
// into the symbol convention used on the acset side: stocks become
// "u.<name>", everything else that is not a numeric literal becomes
// "p.<name>". Operands that already carry a prefix pass through unchanged,
// so the rewrite is idempotent.
func prefixRateExpression(expr string, stocks map[string]int) string {
	return operandPattern.ReplaceAllStringFunc(expr, func(op string) string {
		if normalizeOperand(op) != op || isNumber(op) {
			return op
		}
		if _, ok := stocks[op]; ok {
			return "u." + op
		}
		return "p." + op
	})
}

// ToAMR converts a StockFlow acset instance to its AMR form.
//
// Every stock contributes an initial condition driven by a generated
// "<stock>0" parameter. Flow rate expressions are scanned for operands:
// anything that is neither a stock nor a numeric literal is inferred to be a
// parameter (exported with a "p_" prefix and an auxiliary of the same name).
// Links record which stocks and parameters each flow reads.
func ToAMR(acs *acset.ACSet) (*AMR, error) {
	if acs.Schema.Name != SchStockFlow.Name {
		return nil, fmt.Errorf("to amr: instance has schema %q, want %q", acs.Schema.Name, SchStockFlow.Name)
	}

	amr := &AMR{
		Header: Header{
			ID:           uuid.NewString(),
			SchemaName:   "stockflow",
			ModelVersion: "0.1",
		},
		Model: Model{
			Flows:       []AMRFlow{},
			Stocks:      []AMRStock{},
			Auxiliaries: []AMRAuxiliary{},
			Links:       []AMRLink{},
		},
		Semantics: Semantics{ODE: ODESemantics{
			Parameters:  []AMRParameter{},
			Initials:    []AMRInitial{},
			Observables: []any{},
		}},
	}

	stockNames := make([]string, acs.NParts(ObStock))
	stockSet := make(map[string]bool, len(stockNames))
	for _, i := range acs.Parts(ObStock) {
		v, ok := acs.Subpart(i, AttrSName)
		if !ok {
			return nil, fmt.Errorf("to amr: stock %d has no name", i+1)
		}
		name := string(v.(acset.Str))
		stockNames[i] = name
		stockSet[name] = true

		amr.Model.Stocks = append(amr.Model.Stocks, AMRStock{ID: name})
		initName := name + "0"
		amr.Semantics.ODE.Initials = append(amr.Semantics.ODE.Initials, AMRInitial{
			Target:     name,
			Expression: initName,
		})
		amr.Semantics.ODE.Parameters = append(amr.Semantics.ODE.Parameters, AMRParameter{
			ID:   initName,
			Name: initName,
		})
	}

	seenParams := make(map[string]bool)
	flowReads := make([][]string, acs.NParts(ObFlow))
	for _, i := range acs.Parts(ObFlow) {
		flowID := "flow" + strconv.Itoa(i+1)

		up, ok := acs.Ref(i, HomUp)
		if !ok {
			return nil, fmt.Errorf("to amr: flow %d has no upstream stock", i+1)
		}
		down, ok := acs.Ref(i, HomDown)
		if !ok {
			return nil, fmt.Errorf("to amr: flow %d has no downstream stock", i+1)
		}
		if up < 0 || up >= len(stockNames) || down < 0 || down >= len(stockNames) {
			return nil, fmt.Errorf("to amr: flow %d references a missing stock", i+1)
		}

		name := ""
		if v, ok := acs.Subpart(i, AttrFName); ok {
			name = string(v.(acset.Str))
		}
		rate := ""
		if v, ok := acs.Subpart(i, AttrRate); ok {
			rate = string(v.(acset.Str))
		}

		amr.Model.Flows = append(amr.Model.Flows, AMRFlow{
			ID:              flowID,
			Name:            name,
			UpstreamStock:   stockNames[up],
			DownstreamStock: stockNames[down],
			RateExpression:  rate,
		})

		// Operand scan: parameters are whatever is neither a stock nor a
		// numeric literal.
		var reads []string
		for _, op := range operandPattern.FindAllString(rate, -1) {
			op = normalizeOperand(op)
			if isNumber(op) {
				continue
			}
			reads = append(reads, op)
			if !stockSet[op] {
				seenParams[op] = true
			}
		}
		flowReads[i] = reads
	}

	params := make([]string, 0, len(seenParams))
	for p := range seenParams {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		paramName := "p_" + p
		amr.Semantics.ODE.Parameters = append(amr.Semantics.ODE.Parameters, AMRParameter{
			ID:   paramName,
			Name: paramName,
		})
		amr.Model.Auxiliaries = append(amr.Model.Auxiliaries, AMRAuxiliary{
			ID:         paramName,
			Name:       paramName,
			Expression: paramName,
		})
	}

	for i, reads := range flowReads {
		flowID := "flow" + strconv.Itoa(i+1)
		linkID := "link" + strconv.Itoa(i+1)
		for _, source := range reads {
			amr.Model.Links = append(amr.Model.Links, AMRLink{
				ID:     linkID,
				Source: source,
				Target: flowID,
			})
		}
	}

	return amr, nil
}

// FromAMR converts an AMR stock-and-flow model to a StockFlow acset
// instance. Rate expressions are rewritten into the prefixed symbol
// convention (see prefixRateExpression). Flow targets of links are AMR flow
// ids ("flowN"); only links whose source is a stock become Link parts, since
// parameter links are reconstructible from the rate expressions.
func FromAMR(name string, amr *AMR) (*acset.ACSet, error) {
	acs := acset.New(name, SchStockFlow)

	stockIdx := make(map[string]int, len(amr.Model.Stocks))
	for _, stock := range amr.Model.Stocks {
		i, err := acs.AddPart(ObStock)
		if err != nil {
			return nil, err
		}
		if err := acs.SetSubpart(i, AttrSName, acset.Str(stock.ID)); err != nil {
			return nil, fmt.Errorf("from amr: stock %q: %w", stock.ID, err)
		}
		stockIdx[stock.ID] = i
	}

	for fi, flow := range amr.Model.Flows {
		up, ok := stockIdx[flow.UpstreamStock]
		if !ok {
			return nil, fmt.Errorf("from amr: flow %q: unknown upstream stock %q", flow.ID, flow.UpstreamStock)
		}
		down, ok := stockIdx[flow.DownstreamStock]
		if !ok {
			return nil, fmt.Errorf("from amr: flow %q: unknown downstream stock %q", flow.ID, flow.DownstreamStock)
		}
		i, err := acs.AddPart(ObFlow)
		if err != nil {
			return nil, err
		}
		if i != fi {
			return nil, fmt.Errorf("from amr: flow parts out of sync")
		}
		if err := acs.SetSubpart(i, HomUp, acset.Int(up)); err != nil {
			return nil, fmt.Errorf("from amr: flow %q: %w", flow.ID, err)
		}
		if err := acs.SetSubpart(i, HomDown, acset.Int(down)); err != nil {
			return nil, fmt.Errorf("from amr: flow %q: %w", flow.ID, err)
		}
		if err := acs.SetSubpart(i, AttrFName, acset.Str(flow.Name)); err != nil {
			return nil, fmt.Errorf("from amr: flow %q: %w", flow.ID, err)
		}
		if err := acs.SetSubpart(i, AttrRate, acset.Str(prefixRateExpression(flow.RateExpression, stockIdx))); err != nil {
			return nil, fmt.Errorf("from amr: flow %q: %w", flow.ID, err)
		}
	}

	for _, link := range amr.Model.Links {
		src, ok := stockIdx[link.Source]
		if !ok {
			continue // parameter link, not representable as a Link part
		}
		target, err := parseFlowRef(link.Target)
		if err != nil {
			return nil, fmt.Errorf("from amr: link %q: %w", link.ID, err)
		}
		if target < 0 || target >= acs.NParts(ObFlow) {
			return nil, fmt.Errorf("from amr: link %q: unknown flow %q", link.ID, link.Target)
		}
		i, err := acs.AddPart(ObLink)
		if err != nil {
			return nil, err
		}
		if err := acs.SetSubpart(i, HomSrc, acset.Int(src)); err != nil {
			return nil, fmt.Errorf("from amr: link %q: %w", link.ID, err)
		}
		if err := acs.SetSubpart(i, HomTgt, acset.Int(target)); err != nil {
			return nil, fmt.Errorf("from amr: link %q: %w", link.ID, err)
		}
	}

	return acs, nil
}

// parseFlowRef parses an AMR flow id ("flowN") to a zero-based flow index.
func parseFlowRef(target string) (int, error) {
	digits, ok := strings.CutPrefix(target, "flow")
	if !ok {
		return 0, fmt.Errorf("malformed flow reference %q", target)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("malformed flow reference %q", target)
	}
	return n - 1, nil
}

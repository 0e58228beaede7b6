package acset

import (
	"fmt"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// Validate checks referential integrity: every set morphism cell must be a
// valid zero-based index into its codomain table. JSON Schema cannot express
// this constraint, so it lives here as a first-class check.
//
// Returns all violations (not fail-fast). Field paths use the one-indexed
// wire convention so they line up with the serialized document.
func (a *ACSet) Validate() []schema.ValidationError {
	var errs []schema.ValidationError

	for hi := range a.Schema.Homs {
		hom := &a.Schema.Homs[hi]
		limit := a.NParts(hom.Codom)
		for i := 0; i < a.NParts(hom.Dom); i++ {
			v, ok := a.subparts[hom.Name][i]
			if !ok {
				continue
			}
			target := int(v.(Int))
			if target < 0 || target >= limit {
				errs = append(errs, schema.ValidationError{
					Field: fmt.Sprintf("%s[%d].%s", hom.Dom, i+1, hom.Name),
					Message: fmt.Sprintf("reference %d out of range for table %q (%d parts)",
						target+1, hom.Codom, limit),
				})
			}
		}
	}

	return errs
}

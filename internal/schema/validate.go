package schema

import "fmt"

// ValidationError represents a schema declaration error with field path and
// message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// check validates a schema declaration against consistency rules.
// Returns all errors (not fail-fast) for better developer experience.
func (s *Schema) check() []ValidationError {
	var errs []ValidationError

	if s.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "schema name is required",
		})
	}

	// Rule: at least one object
	if len(s.Obs) == 0 {
		errs = append(errs, ValidationError{
			Field:   "obs",
			Message: "at least one object is required",
		})
	}

	// Rule: unique object names
	obs := make(map[string]bool, len(s.Obs))
	for i, ob := range s.Obs {
		if ob.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("obs[%d].name", i),
				Message: "object name is required",
			})
			continue
		}
		if obs[ob.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("obs[%d].name", i),
				Message: fmt.Sprintf("duplicate object name: %q", ob.Name),
			})
		}
		obs[ob.Name] = true
	}

	// Rule: attrtype names unique, kinds valid
	attrtypes := make(map[string]bool, len(s.AttrTypes))
	for i, at := range s.AttrTypes {
		if attrtypes[at.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attrtypes[%d].name", i),
				Message: fmt.Sprintf("duplicate attribute type name: %q", at.Name),
			})
		}
		attrtypes[at.Name] = true
		if !ValidKinds[at.Kind] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attrtypes[%d].ty", i),
				Message: fmt.Sprintf("invalid kind %q, must be one of: string, int, float, bool, object", at.Kind),
			})
		}
	}

	// Rule: hom and attr names share one namespace (they become columns of
	// the same tables), and every dom/codom must resolve.
	props := make(map[string]bool, len(s.Homs)+len(s.Attrs))
	for i, h := range s.Homs {
		if props[h.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("homs[%d].name", i),
				Message: fmt.Sprintf("duplicate property name: %q", h.Name),
			})
		}
		props[h.Name] = true
		if !obs[h.Dom] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("homs[%d].dom", i),
				Message: fmt.Sprintf("unknown object %q", h.Dom),
			})
		}
		if !obs[h.Codom] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("homs[%d].codom", i),
				Message: fmt.Sprintf("unknown object %q", h.Codom),
			})
		}
	}
	for i, a := range s.Attrs {
		if props[a.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attrs[%d].name", i),
				Message: fmt.Sprintf("duplicate property name: %q", a.Name),
			})
		}
		props[a.Name] = true
		if !obs[a.Dom] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attrs[%d].dom", i),
				Message: fmt.Sprintf("unknown object %q", a.Dom),
			})
		}
		if !attrtypes[a.Codom] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attrs[%d].codom", i),
				Message: fmt.Sprintf("unknown attribute type %q", a.Codom),
			})
		}
	}

	return errs
}

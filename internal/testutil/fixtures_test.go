package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
)

func TestFixturesValidate(t *testing.T) {
	cases := []struct {
		name string
		acs  *acset.ACSet
	}{
		{"sir_petri", SIRPetri().ACSet},
		{"bare_petri", BarePetri().ACSet},
		{"diffusion_decapode", DiffusionDecapode().ACSet},
		{"sir_stockflow", SIRStockFlow()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, tc.acs.Validate())
		})
	}
}

func TestFixturesDeterministic(t *testing.T) {
	cases := []struct {
		name  string
		build func() *acset.ACSet
	}{
		{"sir_petri", func() *acset.ACSet { return SIRPetri().ACSet }},
		{"bare_petri", func() *acset.ACSet { return BarePetri().ACSet }},
		{"diffusion_decapode", func() *acset.ACSet { return DiffusionDecapode().ACSet }},
		{"sir_stockflow", SIRStockFlow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h1, err := tc.build().Hash()
			require.NoError(t, err)
			h2, err := tc.build().Hash()
			require.NoError(t, err)
			assert.Equal(t, h1, h2)
		})
	}
}

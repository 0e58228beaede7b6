package petri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
)

func TestMiraNetRoundTrip(t *testing.T) {
	net := NewMira("sir_mira")
	_, i, _, inf, _ := sir(t, net)

	require.NoError(t, net.SetSubpart(i, "sname", acset.Str("infected_population")))
	require.NoError(t, net.SetSubpart(i, "mira_ids", acset.Str(`[["identity", "ido:0000511"]]`)))
	require.NoError(t, net.SetSubpart(i, "mira_initial_value", acset.Float(0.01)))
	require.NoError(t, net.SetSubpart(inf, "tname", acset.Str("infection")))
	require.NoError(t, net.SetSubpart(inf, "template_type", acset.Str("ControlledConversion")))
	require.NoError(t, net.SetSubpart(inf, "parameter_name", acset.Str("beta")))
	require.NoError(t, net.SetSubpart(inf, "parameter_value", acset.Float(0.5)))
	require.NoError(t, net.SetSubpart(inf, "mira_rate_law", acset.Str("beta*susceptible_population*infected_population")))

	require.Empty(t, net.Validate())

	data, err := net.Export()
	require.NoError(t, err)
	back, err := acset.Import("sir_mira", SchMiraNet, data)
	require.NoError(t, err)

	got, ok := back.Subpart(inf, "mira_rate_law")
	require.True(t, ok)
	assert.Equal(t, acset.Str("beta*susceptible_population*infected_population"), got)

	h1, err := net.Hash()
	require.NoError(t, err)
	h2, err := back.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	cases := []struct {
		name     string
		params   MeshParams
		elements uint32
		indexed  bool
	}{
		{"default quad", DefaultQuadParams(), 6, true},
		{"default icosphere", DefaultIcosphereParams(), 960, false},
		{"indexed icosphere", MeshParams{Shape: ShapeIcosphere, Radius: 2, Iterations: 1, Indexed: true}, 240, true},
		{"flat quad", MeshParams{Shape: ShapeQuad, Width: 3, Height: 1}, 6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Generate(tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.elements, m.ElementCount())
			assert.Equal(t, tc.indexed, m.Indexed())
			assert.Equal(t, tc.params.Shape, m.Stats.Shape)
		})
	}
}

func TestGenerateIsRepeatable(t *testing.T) {
	p := DefaultIcosphereParams()
	a, err := Generate(p)
	require.NoError(t, err)
	b, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, a.Vertices, b.Vertices)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(MeshParams{Shape: "torus"})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, err = Generate(MeshParams{Shape: ShapeIcosphere, Radius: 1, Iterations: 9})
	assert.ErrorIs(t, err, common.ErrResourceLimitExceeded)

	// Extra options are applied after the params and can lift the limit.
	m, err := Generate(MeshParams{Shape: ShapeIcosphere, Radius: 1, Iterations: 7, Indexed: true}, WithMaxIterations(7))
	require.NoError(t, err)
	assert.Len(t, m.Indices, 60*(1<<14))
}

func TestMeshParamsString(t *testing.T) {
	assert.Equal(t, "icosphere r=1.00 it=2 indexed=false", DefaultIcosphereParams().String())
	assert.Equal(t, "quad 2x2 indexed=true", DefaultQuadParams().String())
}

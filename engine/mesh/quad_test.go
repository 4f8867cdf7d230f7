package mesh

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuadIndexed(t *testing.T) {
	m, err := NewQuad(2, 2)
	require.NoError(t, err)

	require.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, m.Indices)
	assert.True(t, m.Indexed())
	assert.Equal(t, uint32(6), m.ElementCount())

	wantPos := [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	wantUV := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, v := range m.Vertices {
		assert.Equal(t, wantPos[i], v.Position)
		assert.Equal(t, wantUV[i], v.TexCoord)
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
		assertVec3(t, mgl32.Vec3{1, 0, 0}, v.Tangent)
		assertVec3(t, mgl32.Vec3{0, 1, 0}, v.Bitangent)
	}

	assert.Equal(t, ShapeQuad, m.Stats.Shape)
	assert.Equal(t, 4, m.Stats.Vertices)
	assert.Equal(t, 6, m.Stats.Indices)
	assert.Equal(t, 2, m.Stats.Triangles)
}

func TestNewQuadRectangle(t *testing.T) {
	m, err := NewQuad(4, 1)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{-2, -0.5, 0}, m.Vertices[0].Position)
	assert.Equal(t, [3]float32{2, 0.5, 0}, m.Vertices[2].Position)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, mgl32.Vec3(v.Tangent).Len(), tolerance)
		assert.InDelta(t, 1, mgl32.Vec3(v.Bitangent).Len(), tolerance)
	}
}

func TestNewQuadFlattened(t *testing.T) {
	indexed, err := NewQuad(2, 2)
	require.NoError(t, err)
	flat, err := NewQuad(2, 2, WithIndexed(false))
	require.NoError(t, err)

	assert.False(t, flat.Indexed())
	assert.Nil(t, flat.IndexBytes())
	require.Len(t, flat.Vertices, len(indexed.Indices))
	assert.Equal(t, uint32(6), flat.ElementCount())
	for i, idx := range indexed.Indices {
		assert.Equal(t, indexed.Vertices[idx], flat.Vertices[i], "vertex %d", i)
	}
}

func TestNewQuadInvalidDimensions(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	cases := []struct {
		name          string
		width, height float32
	}{
		{"zero width", 0, 1},
		{"zero height", 1, 0},
		{"negative width", -1, 1},
		{"negative height", 1, -2},
		{"nan width", nan, 1},
		{"infinite height", 1, inf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewQuad(tc.width, tc.height)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, common.ErrInvalidParameter)
		})
	}
}

package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texCoords(m *MeshData) []mgl32.Vec2 {
	uvs := make([]mgl32.Vec2, len(m.Vertices))
	for i, v := range m.Vertices {
		uvs[i] = v.TexCoord
	}
	return uvs
}

func drawOrder(m *MeshData) []uint32 {
	if m.Indexed() {
		return m.Indices
	}
	order := make([]uint32, len(m.Vertices))
	for i := range order {
		order[i] = uint32(i)
	}
	return order
}

func TestIcosahedron(t *testing.T) {
	positions, indices := icosahedron()
	require.Len(t, positions, 12)
	require.Len(t, indices, 60)
	for i, p := range positions {
		assert.InDelta(t, 1, p.Len(), tolerance, "vertex %d", i)
	}

	// Every edge of a closed triangle mesh is used exactly twice.
	edges := make(map[[2]uint32]int)
	for t := 0; t < len(indices); t += 3 {
		for k := 0; k < 3; k++ {
			a, b := indices[t+k], indices[t+(k+1)%3]
			edges[[2]uint32{min(a, b), max(a, b)}]++
		}
	}
	assert.Len(t, edges, 30)
	for e, n := range edges {
		assert.Equal(t, 2, n, "edge %v", e)
	}
}

func TestIcosphereCounts(t *testing.T) {
	cases := []struct {
		iterations uint32
		preSeam    int
		shared     int
		indices    int
	}{
		{0, 12, 12, 60},
		{1, 72, 42, 240},
		{2, 312, 162, 960},
		{3, 1272, 642, 3840},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.preSeam, IcosphereVertexCount(tc.iterations, false))
		assert.Equal(t, tc.shared, IcosphereVertexCount(tc.iterations, true))
		assert.Equal(t, tc.indices/3, IcosphereTriangleCount(tc.iterations))

		m, err := NewIcosphere(1, tc.iterations, WithIndexed(true))
		require.NoError(t, err)
		assert.Equal(t, tc.preSeam, m.Stats.PreSeamVertices, "iterations %d", tc.iterations)
		assert.Len(t, m.Indices, tc.indices, "iterations %d", tc.iterations)
		assert.Len(t, m.Vertices, tc.preSeam+m.Stats.SeamDuplicates)
		assert.Positive(t, m.Stats.SeamDuplicates)

		shared, err := NewIcosphere(1, tc.iterations, WithSharedMidpoints(true))
		require.NoError(t, err)
		assert.Equal(t, tc.shared, shared.Stats.PreSeamVertices, "shared iterations %d", tc.iterations)
		assert.Len(t, shared.Indices, tc.indices)
	}
}

func TestIcosphereBaseSeam(t *testing.T) {
	m, err := NewIcosphere(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, m.Stats.PreSeamVertices)
	assert.Equal(t, 3, m.Stats.SeamDuplicates)
	require.Len(t, m.Vertices, 15)

	// Duplicates keep their source position and move one full U period.
	for dup, src := range map[int]int{12: 0, 13: 5, 14: 10} {
		assert.Equal(t, m.Vertices[src].Position, m.Vertices[dup].Position)
		assert.InDelta(t, m.Vertices[src].TexCoord[0]+1, m.Vertices[dup].TexCoord[0], tolerance)
		assert.Equal(t, m.Vertices[src].TexCoord[1], m.Vertices[dup].TexCoord[1])
	}
}

func TestIcosphereRadius(t *testing.T) {
	for _, radius := range []float32{0.25, 1, 3.5} {
		for _, indexed := range []bool{true, false} {
			m, err := NewIcosphere(radius, 2, WithIndexed(indexed))
			require.NoError(t, err)
			for i, v := range m.Vertices {
				assert.InDelta(t, radius, mgl32.Vec3(v.Position).Len(), 1e-5*float64(radius)+1e-6, "vertex %d", i)
			}
		}
	}
}

func TestIcosphereUnitFrames(t *testing.T) {
	for iterations := uint32(0); iterations <= 3; iterations++ {
		for _, shared := range []bool{false, true} {
			m, err := NewIcosphere(2, iterations, WithSharedMidpoints(shared))
			require.NoError(t, err)
			for i, v := range m.Vertices {
				assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-4, "normal %d", i)
				assert.InDelta(t, 1, mgl32.Vec3(v.Tangent).Len(), 1e-4, "tangent %d", i)
				assert.InDelta(t, 1, mgl32.Vec3(v.Bitangent).Len(), 1e-4, "bitangent %d", i)
			}
			assert.Zero(t, m.Stats.DegenerateTriangles)
		}
	}
}

func TestIcosphereNormalsMatchDirection(t *testing.T) {
	m, err := NewIcosphere(4, 1)
	require.NoError(t, err)
	for i, v := range m.Vertices {
		want := mgl32.Vec3(v.Position).Mul(0.25)
		assert.True(t, want.ApproxEqualThreshold(v.Normal, 1e-5), "vertex %d", i)
	}
}

func TestIcosphereSeamResolved(t *testing.T) {
	for iterations := uint32(0); iterations <= 3; iterations++ {
		for _, shared := range []bool{false, true} {
			m, err := NewIcosphere(1, iterations, WithSharedMidpoints(shared))
			require.NoError(t, err)
			assert.Zero(t, SeamCrossings(texCoords(m), drawOrder(m)), "iterations %d shared %t", iterations, shared)

			// A second detection pass over resolved output finds nothing to split.
			assert.Empty(t, seamVertices(texCoords(m), drawOrder(m)))
		}
	}
}

func TestIcosphereSeamMarksAreUnique(t *testing.T) {
	positions, indices := icosahedron()
	uvs := make([]mgl32.Vec2, len(positions))
	for i, p := range positions {
		uvs[i] = SphericalUV(p)
	}
	before := SeamCrossings(uvs, indices)
	assert.Positive(t, before)

	marked := seamVertices(uvs, indices)
	seen := make(map[uint32]bool)
	for _, i := range marked {
		assert.False(t, seen[i], "vertex %d marked twice", i)
		seen[i] = true
		assert.Less(t, uvs[i].X(), float32(0.5))
	}

	n, pre := len(indices), len(uvs)
	resolvedPositions, resolvedUVs, dups, shifted := resolveSeams(positions, uvs, indices)
	assert.Equal(t, len(marked), dups+shifted)
	assert.Len(t, indices, n)
	assert.Len(t, resolvedUVs, pre+dups)
	assert.Len(t, resolvedPositions, pre+dups)
	for _, idx := range indices {
		require.Less(t, int(idx), len(resolvedUVs), "index points past the extended uv list")
	}
	assert.Zero(t, SeamCrossings(resolvedUVs, indices))
}

func TestIcosphereEveryVertexReferenced(t *testing.T) {
	for iterations := uint32(0); iterations <= 4; iterations++ {
		m, err := NewIcosphere(1, iterations)
		require.NoError(t, err)
		used := make([]bool, len(m.Vertices))
		for _, idx := range m.Indices {
			used[idx] = true
		}
		for i, u := range used {
			assert.True(t, u, "iterations %d: vertex %d is not referenced", iterations, i)
		}
	}
}

func TestIcosphereSeamShiftCounts(t *testing.T) {
	cases := []struct {
		iterations          uint32
		shared              bool
		duplicates, shifted int
	}{
		{0, false, 3, 0},
		{1, false, 6, 0},
		{2, false, 12, 2},
		{3, false, 24, 6},
		{2, true, 11, 0},
		{3, true, 23, 0},
	}
	for _, tc := range cases {
		m, err := NewIcosphere(1, tc.iterations, WithSharedMidpoints(tc.shared), WithIndexed(true))
		require.NoError(t, err)
		assert.Equal(t, tc.duplicates, m.Stats.SeamDuplicates, "iterations %d shared %t", tc.iterations, tc.shared)
		assert.Equal(t, tc.shifted, m.Stats.SeamShifted, "iterations %d shared %t", tc.iterations, tc.shared)
		// shifted vertices are moved, not copied
		assert.Len(t, m.Vertices, m.Stats.PreSeamVertices+tc.duplicates, "iterations %d shared %t", tc.iterations, tc.shared)
	}
}

func TestIcosphereFlattenProperty(t *testing.T) {
	indexed, err := NewIcosphere(1.5, 2, WithIndexed(true))
	require.NoError(t, err)
	flat, err := NewIcosphere(1.5, 2, WithIndexed(false))
	require.NoError(t, err)

	assert.Nil(t, flat.Indices)
	require.Len(t, flat.Vertices, len(indexed.Indices))
	assert.Equal(t, indexed.ElementCount(), flat.ElementCount())
	for i, idx := range indexed.Indices {
		assert.Equal(t, indexed.Vertices[idx], flat.Vertices[i], "vertex %d", i)
	}

	flattened, err := indexed.Flatten()
	require.NoError(t, err)
	assert.Equal(t, flat.Vertices, flattened.Vertices)
}

func TestIcosphereInvalidParameters(t *testing.T) {
	for _, radius := range []float32{0, -1} {
		m, err := NewIcosphere(radius, 1)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, common.ErrInvalidParameter)
	}

	m, err := NewIcosphere(1, MaxIcosphereIterations+1)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, common.ErrResourceLimitExceeded)

	_, err = NewIcosphere(1, 3, WithMaxIterations(2))
	assert.ErrorIs(t, err, common.ErrResourceLimitExceeded)

	// A bad radius is reported even when the iteration count is also out of range.
	_, err = NewIcosphere(0, 100)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestIcosphereRejectPolicySucceeds(t *testing.T) {
	m, err := NewIcosphere(1, 2, WithTangentPolicy(TangentPolicyReject))
	require.NoError(t, err)
	assert.NotEmpty(t, m.Vertices)
}

func TestSphericalUV(t *testing.T) {
	cases := []struct {
		p    mgl32.Vec3
		want mgl32.Vec2
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec2{0.5, 0.5}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec2{0.25, 0.5}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec2{0.75, 0.5}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0.5, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec2{0.5, 1}},
	}
	for _, tc := range cases {
		got := SphericalUV(tc.p)
		assert.True(t, tc.want.ApproxEqualThreshold(got, tolerance), "uv of %v: want %v got %v", tc.p, tc.want, got)
	}
}

package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// icosahedronIndices is the fixed triangle table of the base solid, counter-clockwise
// when viewed from outside.
var icosahedronIndices = []uint32{
	0, 1, 2, 0, 3, 1, 0, 4, 5, 1, 7, 6, 1, 6, 2,
	1, 3, 7, 0, 2, 4, 0, 5, 3, 2, 6, 8, 2, 8, 4,
	3, 5, 9, 3, 9, 7, 11, 6, 7, 10, 5, 4, 10, 4, 8,
	10, 9, 5, 11, 8, 6, 11, 7, 9, 10, 8, 11, 10, 11, 9,
}

// icosahedron returns the 12 unit-length vertices of a regular icosahedron built from
// golden-ratio rectangles, together with a fresh copy of its 20-triangle index list.
func icosahedron() ([]mgl32.Vec3, []uint32) {
	phi := (1 + math32.Sqrt(5)) / 2
	raw := []mgl32.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {0, 1, -phi}, {0, 1, phi},
		{-phi, 0, -1}, {-phi, 0, 1}, {phi, 0, -1}, {phi, 0, 1},
		{0, -1, -phi}, {0, -1, phi}, {-1, -phi, 0}, {1, -phi, 0},
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = p.Normalize()
	}
	return positions, append([]uint32(nil), icosahedronIndices...)
}

// subdivide splits every triangle into four by inserting its three edge midpoints, pushed
// back onto the unit sphere. Without sharing, each triangle appends its own three midpoints
// so neighbouring triangles hold coincident copies. The index list is rebuilt from scratch.
func subdivide(positions []mgl32.Vec3, indices []uint32, shared bool) ([]mgl32.Vec3, []uint32) {
	out := make([]uint32, 0, len(indices)*4)

	var cache map[[2]uint32]uint32
	if shared {
		cache = make(map[[2]uint32]uint32, len(indices))
	}
	midpoint := func(a, b uint32) uint32 {
		key := [2]uint32{min(a, b), max(a, b)}
		if cache != nil {
			if idx, ok := cache[key]; ok {
				return idx
			}
		}
		idx := uint32(len(positions))
		positions = append(positions, positions[a].Add(positions[b]).Normalize())
		if cache != nil {
			cache[key] = idx
		}
		return idx
	}

	for t := 0; t < len(indices); t += 3 {
		i1, i2, i3 := indices[t], indices[t+1], indices[t+2]
		m12 := midpoint(i1, i2)
		m23 := midpoint(i2, i3)
		m13 := midpoint(i1, i3)
		out = append(out,
			i1, m12, m13,
			i2, m23, m12,
			i3, m13, m23,
			m12, m23, m13,
		)
	}
	return positions, out
}

// IcosphereVertexCount returns the vertex count of a subdivided icosahedron before seam
// duplication.
//
// Parameters:
//   - iterations: subdivision rounds
//   - shared: whether edge midpoints are shared between neighbouring triangles
//
// Returns:
//   - int: the pre-seam vertex count
func IcosphereVertexCount(iterations uint32, shared bool) int {
	pow := 1 << (2 * iterations)
	if shared {
		return 10*pow + 2
	}
	return 12 + 20*(pow-1)
}

// IcosphereTriangleCount returns 20*4^iterations.
func IcosphereTriangleCount(iterations uint32) int {
	return 20 << (2 * iterations)
}

// NewIcosphere builds a sphere of the given radius by subdividing an icosahedron, mapping
// spherical UVs, splitting vertices along the U seam, and solving tangents. Every call is a
// full rebuild.
//
// Parameters:
//   - radius: sphere radius, must be finite and positive
//   - iterations: subdivision rounds, at most the configured limit (MaxIcosphereIterations by default)
//   - opts: generator options
//
// Returns:
//   - *MeshData: the packed sphere
//   - error: ErrInvalidParameter, ErrResourceLimitExceeded, or a tangent solver error
func NewIcosphere(radius float32, iterations uint32, opts ...GeneratorOption) (*MeshData, error) {
	if !common.IsFinite(radius) || radius <= 0 {
		return nil, fmt.Errorf("icosphere radius %v: %w", radius, common.ErrInvalidParameter)
	}
	cfg := newGeneratorConfig(opts)
	if iterations > cfg.maxIterations {
		return nil, fmt.Errorf("icosphere iterations %d above limit %d: %w", iterations, cfg.maxIterations, common.ErrResourceLimitExceeded)
	}

	positions, indices := icosahedron()
	for range iterations {
		positions, indices = subdivide(positions, indices, cfg.sharedMidpoints)
	}
	preSeam := len(positions)

	uvs := make([]mgl32.Vec2, len(positions))
	for i, p := range positions {
		uvs[i] = SphericalUV(p)
	}
	positions, uvs, duplicates, shifted := resolveSeams(positions, uvs, indices)

	// Positions are still unit length here, so they double as normals.
	normals := make([]mgl32.Vec3, len(positions))
	copy(normals, positions)
	for i := range positions {
		positions[i] = positions[i].Mul(radius)
	}

	frames, err := ComputeTangentSpace(positions, uvs, indices, WithPolicy(cfg.tangentPolicy), WithNormals(normals))
	if err != nil {
		return nil, fmt.Errorf("failed to compute icosphere tangents: %w", err)
	}

	data := pack(&surface{
		positions: positions,
		uvs:       uvs,
		normals:   normals,
		frames:    frames,
		indices:   indices,
	}, cfg.indexed)
	fillStats(data, GenerationStats{
		Shape:               ShapeIcosphere,
		Iterations:          iterations,
		PreSeamVertices:     preSeam,
		SeamDuplicates:      duplicates,
		SeamShifted:         shifted,
		DegenerateTriangles: frames.Degenerate,
	})

	cfg.logger.Debug("generated icosphere",
		"radius", radius,
		"iterations", iterations,
		"indexed", cfg.indexed,
		"shared_midpoints", cfg.sharedMidpoints,
		"pre_seam_vertices", preSeam,
		"seam_duplicates", duplicates,
		"seam_shifted", shifted,
		"vertices", data.Stats.Vertices,
		"indices", data.Stats.Indices,
	)
	return data, nil
}

package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	quadUVs     = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	quadIndices = []uint32{0, 1, 2, 2, 3, 0}
)

// NewQuad builds a width x height rectangle centered on the origin in the XY plane, facing +Z,
// as two counter-clockwise triangles with UVs spanning [0,1] on both axes.
//
// Parameters:
//   - width: extent along X, must be finite and positive
//   - height: extent along Y, must be finite and positive
//   - opts: generator options (WithIndexed, WithTangentPolicy, WithLogger)
//
// Returns:
//   - *MeshData: 4 vertices and 6 indices, or 6 flattened vertices
//   - error: ErrInvalidParameter for bad dimensions, or a tangent solver error
func NewQuad(width, height float32, opts ...GeneratorOption) (*MeshData, error) {
	if !common.IsFinite(width) || width <= 0 {
		return nil, fmt.Errorf("quad width %v: %w", width, common.ErrInvalidParameter)
	}
	if !common.IsFinite(height) || height <= 0 {
		return nil, fmt.Errorf("quad height %v: %w", height, common.ErrInvalidParameter)
	}
	cfg := newGeneratorConfig(opts)

	hw, hh := width/2, height/2
	s := &surface{
		positions: []mgl32.Vec3{
			{-hw, -hh, 0},
			{hw, -hh, 0},
			{hw, hh, 0},
			{-hw, hh, 0},
		},
		uvs:     append([]mgl32.Vec2(nil), quadUVs...),
		normals: []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		indices: append([]uint32(nil), quadIndices...),
	}

	frames, err := ComputeTangentSpace(s.positions, s.uvs, s.indices, WithPolicy(cfg.tangentPolicy), WithNormals(s.normals))
	if err != nil {
		return nil, fmt.Errorf("failed to compute quad tangents: %w", err)
	}
	s.frames = frames

	data := pack(s, cfg.indexed)
	fillStats(data, GenerationStats{
		Shape:               ShapeQuad,
		PreSeamVertices:     len(s.positions),
		DegenerateTriangles: frames.Degenerate,
	})

	cfg.logger.Debug("generated quad",
		"width", width,
		"height", height,
		"indexed", cfg.indexed,
		"vertices", data.Stats.Vertices,
		"indices", data.Stats.Indices,
	)
	return data, nil
}

package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
)

// MeshParams is a caller-owned description of one mesh. Generate turns it into MeshData without
// touching any shared state, so a viewer can keep the params it last requested and rebuild
// whenever they change.
type MeshParams struct {
	Shape Shape

	// Quad dimensions.
	Width  float32
	Height float32

	// Icosphere shape.
	Radius     float32
	Iterations uint32

	Indexed         bool
	SharedMidpoints bool
	TangentPolicy   TangentPolicy
}

// DefaultIcosphereParams returns the parameters of the sphere the viewer opens with:
// radius 1, two subdivisions, flattened output.
func DefaultIcosphereParams() MeshParams {
	return MeshParams{
		Shape:      ShapeIcosphere,
		Radius:     1,
		Iterations: 2,
		Indexed:    false,
	}
}

// DefaultQuadParams returns a 2x2 indexed quad.
func DefaultQuadParams() MeshParams {
	return MeshParams{
		Shape:   ShapeQuad,
		Width:   2,
		Height:  2,
		Indexed: true,
	}
}

// Options converts the params into generator options. Extra options are appended last and
// therefore win.
func (p MeshParams) Options(extra ...GeneratorOption) []GeneratorOption {
	opts := []GeneratorOption{
		WithIndexed(p.Indexed),
		WithSharedMidpoints(p.SharedMidpoints),
		WithTangentPolicy(p.TangentPolicy),
	}
	return append(opts, extra...)
}

// String renders the params compactly for window titles and log lines.
func (p MeshParams) String() string {
	switch p.Shape {
	case ShapeQuad:
		return fmt.Sprintf("quad %gx%g indexed=%t", p.Width, p.Height, p.Indexed)
	default:
		return fmt.Sprintf("icosphere r=%.2f it=%d indexed=%t", p.Radius, p.Iterations, p.Indexed)
	}
}

// Generate builds the mesh described by p.
//
// Parameters:
//   - p: the mesh description
//   - extra: options applied after those derived from p (e.g. WithLogger, WithMaxIterations)
//
// Returns:
//   - *MeshData: the generated mesh
//   - error: the generator's error, or ErrInvalidParameter for an unknown shape
func Generate(p MeshParams, extra ...GeneratorOption) (*MeshData, error) {
	switch p.Shape {
	case ShapeQuad:
		return NewQuad(p.Width, p.Height, p.Options(extra...)...)
	case ShapeIcosphere:
		return NewIcosphere(p.Radius, p.Iterations, p.Options(extra...)...)
	}
	return nil, fmt.Errorf("unknown shape %q: %w", p.Shape, common.ErrInvalidParameter)
}

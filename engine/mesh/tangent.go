package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/go-gl/mathgl/mgl32"
)

// TangentPolicy selects what the tangent solver does with triangles whose UV mapping is singular.
type TangentPolicy int

const (
	// TangentPolicyPropagate divides by the zero determinant and lets the resulting
	// non-finite values flow into every vertex the triangle touches.
	TangentPolicyPropagate TangentPolicy = iota

	// TangentPolicyReject fails the whole solve with ErrNumericDegenerate on the first singular triangle.
	TangentPolicyReject

	// TangentPolicyFallback skips singular triangles and gives any vertex left without a usable
	// frame an arbitrary unit tangent perpendicular to its normal.
	TangentPolicyFallback
)

// String returns the lower-case policy name used in configuration files and flags.
func (p TangentPolicy) String() string {
	switch p {
	case TangentPolicyReject:
		return "reject"
	case TangentPolicyFallback:
		return "fallback"
	default:
		return "propagate"
	}
}

// ParseTangentPolicy maps a policy name to its TangentPolicy. The empty string maps to
// TangentPolicyPropagate.
//
// Parameters:
//   - name: one of "propagate", "reject" or "fallback"
//
// Returns:
//   - TangentPolicy: the matching policy
//   - error: ErrInvalidParameter for unknown names
func ParseTangentPolicy(name string) (TangentPolicy, error) {
	switch name {
	case "", "propagate":
		return TangentPolicyPropagate, nil
	case "reject":
		return TangentPolicyReject, nil
	case "fallback":
		return TangentPolicyFallback, nil
	}
	return TangentPolicyPropagate, fmt.Errorf("unknown tangent policy %q: %w", name, common.ErrInvalidParameter)
}

// TangentSpace holds per-vertex tangent frames parallel to the position list passed to
// ComputeTangentSpace.
type TangentSpace struct {
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3

	// Degenerate is the number of triangles with a zero or non-finite UV determinant.
	Degenerate int
}

type tangentSolver struct {
	policy  TangentPolicy
	normals []mgl32.Vec3
}

// TangentOption configures a single ComputeTangentSpace call.
type TangentOption func(s *tangentSolver)

// WithPolicy sets how singular UV triangles are handled. Defaults to TangentPolicyPropagate.
func WithPolicy(policy TangentPolicy) TangentOption {
	return func(s *tangentSolver) {
		s.policy = policy
	}
}

// WithNormals supplies per-vertex normals for TangentPolicyFallback. Without them the
// fallback frame is built around the accumulated face normal.
func WithNormals(normals []mgl32.Vec3) TangentOption {
	return func(s *tangentSolver) {
		s.normals = normals
	}
}

// ComputeTangentSpace derives a tangent and bitangent for each vertex by accumulating the
// per-triangle solution of the UV mapping over every incident triangle, dividing by the
// incidence count and normalizing. The frames are not orthogonalized against each other or
// against the normal.
//
// Each vertex's incidence counter starts at 1, so a vertex touched by k triangles is divided
// by k+1. Normalization makes the divisor irrelevant for finite sums.
//
// Parameters:
//   - positions: vertex positions
//   - uvs: texture coordinates, parallel to positions
//   - indices: triangle list, length a multiple of 3
//   - opts: solver options
//
// Returns:
//   - TangentSpace: unit tangents and bitangents parallel to positions
//   - error: ErrInvalidParameter for mismatched or out-of-range input,
//     ErrNumericDegenerate under TangentPolicyReject
func ComputeTangentSpace(positions []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32, opts ...TangentOption) (TangentSpace, error) {
	s := &tangentSolver{policy: TangentPolicyPropagate}
	for _, opt := range opts {
		opt(s)
	}

	n := len(positions)
	if len(uvs) != n {
		return TangentSpace{}, fmt.Errorf("uv count %d does not match position count %d: %w", len(uvs), n, common.ErrInvalidParameter)
	}
	if len(indices)%3 != 0 {
		return TangentSpace{}, fmt.Errorf("index count %d is not a multiple of 3: %w", len(indices), common.ErrInvalidParameter)
	}
	if s.normals != nil && len(s.normals) != n {
		return TangentSpace{}, fmt.Errorf("normal count %d does not match position count %d: %w", len(s.normals), n, common.ErrInvalidParameter)
	}

	tangents := make([]mgl32.Vec3, n)
	bitangents := make([]mgl32.Vec3, n)
	counts := make([]float32, n)
	for i := range counts {
		counts[i] = 1
	}

	var faceNormals []mgl32.Vec3
	if s.policy == TangentPolicyFallback && s.normals == nil {
		faceNormals = make([]mgl32.Vec3, n)
	}

	degenerate := 0
	for t := 0; t < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			return TangentSpace{}, fmt.Errorf("triangle %d references vertex past %d: %w", t/3, n, common.ErrInvalidParameter)
		}

		e1 := positions[i1].Sub(positions[i0])
		e2 := positions[i2].Sub(positions[i0])
		d1 := uvs[i1].Sub(uvs[i0])
		d2 := uvs[i2].Sub(uvs[i0])

		if faceNormals != nil {
			fn := e1.Cross(e2)
			faceNormals[i0] = faceNormals[i0].Add(fn)
			faceNormals[i1] = faceNormals[i1].Add(fn)
			faceNormals[i2] = faceNormals[i2].Add(fn)
		}

		det := d1.X()*d2.Y() - d1.Y()*d2.X()
		if det == 0 || !common.IsFinite(det) {
			degenerate++
			switch s.policy {
			case TangentPolicyReject:
				return TangentSpace{}, fmt.Errorf("triangle %d (%d, %d, %d) has a singular uv mapping: %w", t/3, i0, i1, i2, common.ErrNumericDegenerate)
			case TangentPolicyFallback:
				continue
			}
		}

		r := 1 / det
		tangent := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(r)
		bitangent := e2.Mul(d1.X()).Sub(e1.Mul(d2.X())).Mul(r)

		for _, i := range [3]uint32{i0, i1, i2} {
			tangents[i] = tangents[i].Add(tangent)
			bitangents[i] = bitangents[i].Add(bitangent)
			counts[i]++
		}
	}

	for i := range tangents {
		inv := 1 / counts[i]
		tangents[i] = tangents[i].Mul(inv).Normalize()
		bitangents[i] = bitangents[i].Mul(inv).Normalize()
	}

	if s.policy == TangentPolicyFallback {
		for i := range tangents {
			normal := mgl32.Vec3{0, 0, 1}
			if s.normals != nil {
				normal = s.normals[i]
			} else if faceNormals[i].LenSqr() > 0 {
				normal = faceNormals[i]
			}
			tangents[i], bitangents[i] = repairFrame(tangents[i], bitangents[i], normal)
		}
	}

	return TangentSpace{Tangents: tangents, Bitangents: bitangents, Degenerate: degenerate}, nil
}

// repairFrame replaces a non-finite tangent or bitangent with a unit vector built around normal.
func repairFrame(tangent, bitangent, normal mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	normal = normal.Normalize()
	if !usableUnit(normal) {
		normal = mgl32.Vec3{0, 0, 1}
	}
	if !usableUnit(tangent) {
		tangent = common.AnyPerpendicular(normal)
	}
	if !usableUnit(bitangent) {
		bitangent = normal.Cross(tangent).Normalize()
		if !usableUnit(bitangent) {
			bitangent = common.AnyPerpendicular(tangent)
		}
	}
	return tangent, bitangent
}

func usableUnit(v mgl32.Vec3) bool {
	if !common.IsFinite(v[0]) || !common.IsFinite(v[1]) || !common.IsFinite(v[2]) {
		return false
	}
	return v.LenSqr() > 1e-12
}

package mesh

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
)

// Shape identifies which generator produced a MeshData.
type Shape string

const (
	ShapeQuad      Shape = "quad"
	ShapeIcosphere Shape = "icosphere"
)

// GenerationStats describes the work done by one generator call.
type GenerationStats struct {
	Shape      Shape
	Iterations uint32

	// PreSeamVertices is the vertex count before seam duplication.
	PreSeamVertices int
	// SeamDuplicates is the number of vertices appended to split the UV seam. Each marked
	// vertex is counted once, and only vertices used on both sides of the wrap get a copy.
	SeamDuplicates int
	// SeamShifted is the number of marked vertices whose U was moved by +1 in place because
	// every triangle using them lies on the high side of the wrap. They add no vertices, so
	// an indexed sphere has PreSeamVertices+SeamDuplicates vertices, fewer than one copy per
	// seam mark would give.
	SeamShifted int
	// DegenerateTriangles counts triangles with a singular UV mapping.
	DegenerateTriangles int

	Vertices  int
	Indices   int
	Triangles int
}

// MeshData is the host-side result of a generator: packed vertices plus an optional index list.
// A nil Indices slice means the vertices are already flattened into draw order.
type MeshData struct {
	Vertices []GPUMeshVertex
	Indices  []uint32
	Stats    GenerationStats
}

// Indexed reports whether the mesh carries an index list.
func (m *MeshData) Indexed() bool {
	return m.Indices != nil
}

// ElementCount returns the number of elements a draw call covers: the index count for
// indexed meshes, the vertex count otherwise.
//
// Returns:
//   - uint32: number of indices or vertices to draw
func (m *MeshData) ElementCount() uint32 {
	if m.Indexed() {
		return uint32(len(m.Indices))
	}
	return uint32(len(m.Vertices))
}

// TriangleCount returns the number of triangles the mesh draws.
func (m *MeshData) TriangleCount() int {
	return int(m.ElementCount()) / 3
}

// VertexBytes serializes every vertex back to back, 56 bytes each, little-endian.
//
// Returns:
//   - []byte: the vertex buffer contents, or nil when the mesh has no vertices
func (m *MeshData) VertexBytes() []byte {
	if len(m.Vertices) == 0 {
		return nil
	}
	buf := make([]byte, len(m.Vertices)*GPUMeshVertexStride)
	for i := range m.Vertices {
		m.Vertices[i].MarshalInto(buf[i*GPUMeshVertexStride:])
	}
	return buf
}

// IndexBytes serializes the index list as little-endian uint32 values.
//
// Returns:
//   - []byte: the index buffer contents, or nil for non-indexed meshes
func (m *MeshData) IndexBytes() []byte {
	if len(m.Indices) == 0 {
		return nil
	}
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// Flatten expands an indexed mesh into draw order so that vertex i of the result equals
// Vertices[Indices[i]] of the receiver. Non-indexed meshes are returned as a copy.
//
// Returns:
//   - *MeshData: a new non-indexed mesh
//   - error: ErrInvalidParameter if an index points past the vertex list
func (m *MeshData) Flatten() (*MeshData, error) {
	if !m.Indexed() {
		out := &MeshData{Vertices: make([]GPUMeshVertex, len(m.Vertices)), Stats: m.Stats}
		copy(out.Vertices, m.Vertices)
		return out, nil
	}

	vertices := make([]GPUMeshVertex, len(m.Indices))
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return nil, fmt.Errorf("index %d at position %d exceeds vertex count %d: %w", idx, i, len(m.Vertices), common.ErrInvalidParameter)
		}
		vertices[i] = m.Vertices[idx]
	}

	stats := m.Stats
	stats.Vertices = len(vertices)
	stats.Indices = 0
	return &MeshData{Vertices: vertices, Stats: stats}, nil
}

package mesh

import "github.com/go-gl/mathgl/mgl32"

// surface is the host-side attribute set a generator hands to pack.
type surface struct {
	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	normals   []mgl32.Vec3
	frames    TangentSpace
	indices   []uint32
}

func (s *surface) vertex(i uint32) GPUMeshVertex {
	return GPUMeshVertex{
		Position:  s.positions[i],
		TexCoord:  s.uvs[i],
		Normal:    s.normals[i],
		Tangent:   s.frames.Tangents[i],
		Bitangent: s.frames.Bitangents[i],
	}
}

// pack interleaves the attribute lists into GPUMeshVertex records. Indexed output keeps one
// record per vertex plus a copy of the index list; flattened output emits one record per index
// in index order and no index list.
func pack(s *surface, indexed bool) *MeshData {
	if indexed {
		vertices := make([]GPUMeshVertex, len(s.positions))
		for i := range vertices {
			vertices[i] = s.vertex(uint32(i))
		}
		indices := make([]uint32, len(s.indices))
		copy(indices, s.indices)
		return &MeshData{Vertices: vertices, Indices: indices}
	}

	vertices := make([]GPUMeshVertex, len(s.indices))
	for i, idx := range s.indices {
		vertices[i] = s.vertex(idx)
	}
	return &MeshData{Vertices: vertices}
}

// fillStats completes the count fields of stats from the packed mesh.
func fillStats(m *MeshData, stats GenerationStats) {
	stats.Vertices = len(m.Vertices)
	stats.Indices = len(m.Indices)
	stats.Triangles = m.TriangleCount()
	m.Stats = stats
}

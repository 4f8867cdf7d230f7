package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUMeshVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUMeshVertex layout exactly (56 bytes, tightly packed).
//
//go:embed assets/mesh_vertex.wgsl
var GPUMeshVertexSource string

// Byte offsets of each GPUMeshVertex attribute within one vertex.
const (
	PositionOffset  = 0
	TexCoordOffset  = 12
	NormalOffset    = 20
	TangentOffset   = 32
	BitangentOffset = 44

	// GPUMeshVertexStride is the distance in bytes between consecutive vertices.
	GPUMeshVertexStride = 56
)

// GPUMeshVertex is the GPU-aligned representation of a single generated mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUMeshVertexSource).
// Size: 56 bytes, no padding between attributes.
type GPUMeshVertex struct {
	Position  [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord  [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Normal    [3]float32 // offset 20: unit surface normal (12 bytes)
	Tangent   [3]float32 // offset 32: unit tangent along +U (12 bytes)
	Bitangent [3]float32 // offset 44: unit bitangent along +V (12 bytes)
}

// Size returns the size of the GPUMeshVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMeshVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte little-endian buffer ready for GPU upload.
func (g *GPUMeshVertex) Marshal() []byte {
	buf := make([]byte, GPUMeshVertexStride)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto writes the vertex into the first 56 bytes of dst.
// dst must be at least GPUMeshVertexStride bytes long.
func (g *GPUMeshVertex) MarshalInto(dst []byte) {
	putVec(dst[PositionOffset:], g.Position[:])
	putVec(dst[TexCoordOffset:], g.TexCoord[:])
	putVec(dst[NormalOffset:], g.Normal[:])
	putVec(dst[TangentOffset:], g.Tangent[:])
	putVec(dst[BitangentOffset:], g.Bitangent[:])
}

func putVec(dst []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(f))
	}
}

// VertexBufferLayout describes GPUMeshVertex to a render pipeline: five attributes at
// shader locations 0 through 4, stride 56, advanced once per vertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout to pass in wgpu.VertexState.Buffers
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUMeshVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: PositionOffset, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: TexCoordOffset, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: NormalOffset, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x3, Offset: TangentOffset, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x3, Offset: BitangentOffset, ShaderLocation: 4},
		},
	}
}

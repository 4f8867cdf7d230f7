package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUMeshVertexSize(t *testing.T) {
	var v GPUMeshVertex
	assert.Equal(t, 56, v.Size())
	assert.Equal(t, GPUMeshVertexStride, v.Size())
}

func TestGPUMeshVertexMarshal(t *testing.T) {
	v := GPUMeshVertex{
		Position:  [3]float32{1, 2, 3},
		TexCoord:  [2]float32{4, 5},
		Normal:    [3]float32{6, 7, 8},
		Tangent:   [3]float32{9, 10, 11},
		Bitangent: [3]float32{12, 13, 14},
	}
	buf := v.Marshal()
	require.Len(t, buf, 56)

	// Fields are tightly packed so the n-th float sits at byte 4n.
	for i := 0; i < 14; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, float32(i+1), got, "float %d", i)
	}
}

func TestVertexBufferLayout(t *testing.T) {
	layout := VertexBufferLayout()
	assert.Equal(t, uint64(56), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 5)

	wantOffsets := []uint64{0, 12, 20, 32, 44}
	wantFormats := []wgpu.VertexFormat{
		wgpu.VertexFormatFloat32x3,
		wgpu.VertexFormatFloat32x2,
		wgpu.VertexFormatFloat32x3,
		wgpu.VertexFormatFloat32x3,
		wgpu.VertexFormatFloat32x3,
	}
	for i, attr := range layout.Attributes {
		assert.Equal(t, wantOffsets[i], attr.Offset, "attribute %d offset", i)
		assert.Equal(t, wantFormats[i], attr.Format, "attribute %d format", i)
		assert.Equal(t, uint32(i), attr.ShaderLocation, "attribute %d location", i)
	}
}

func TestGPUMeshVertexSourceDeclaresLocations(t *testing.T) {
	for _, loc := range []string{"@location(0)", "@location(1)", "@location(2)", "@location(3)", "@location(4)"} {
		assert.Contains(t, GPUMeshVertexSource, loc)
	}
}

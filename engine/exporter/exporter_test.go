package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocumentIndexed(t *testing.T) {
	data, err := mesh.NewIcosphere(1, 1, mesh.WithIndexed(true))
	require.NoError(t, err)

	doc, err := BuildDocument(data, WithName("Sphere"))
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, "Sphere", doc.Meshes[0].Name)
	prim := doc.Meshes[0].Primitives[0]
	for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0, gltf.TANGENT} {
		idx, ok := prim.Attributes[attr]
		require.True(t, ok, "missing %s", attr)
		assert.Equal(t, uint32(len(data.Vertices)), doc.Accessors[idx].Count, attr)
	}
	require.NotNil(t, prim.Indices)
	assert.Equal(t, uint32(len(data.Indices)), doc.Accessors[*prim.Indices].Count)
	require.NotNil(t, prim.Material)
	assert.Len(t, doc.Materials, 1)
}

func TestBuildDocumentNonIndexed(t *testing.T) {
	data, err := mesh.NewQuad(2, 2, mesh.WithIndexed(false))
	require.NoError(t, err)

	doc, err := BuildDocument(data, WithMaterial(false))
	require.NoError(t, err)
	prim := doc.Meshes[0].Primitives[0]
	assert.Nil(t, prim.Indices)
	assert.Nil(t, prim.Material)
	assert.Equal(t, uint32(6), doc.Accessors[prim.Attributes[gltf.POSITION]].Count)
}

func TestBuildDocumentSkipsNonFiniteTangents(t *testing.T) {
	data, err := mesh.NewQuad(2, 2)
	require.NoError(t, err)
	data.Vertices[1].Tangent[0] = math32.NaN()

	doc, err := BuildDocument(data)
	require.NoError(t, err)
	_, ok := doc.Meshes[0].Primitives[0].Attributes[gltf.TANGENT]
	assert.False(t, ok)
}

func TestBuildDocumentRejectsEmpty(t *testing.T) {
	_, err := BuildDocument(&mesh.MeshData{})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
	assert.ErrorIs(t, ExportGLTF(filepath.Join(t.TempDir(), "x.glb"), nil), common.ErrInvalidParameter)
}

func TestTangentWithHandedness(t *testing.T) {
	v := mesh.GPUMeshVertex{
		Normal:    [3]float32{0, 0, 1},
		Tangent:   [3]float32{1, 0, 0},
		Bitangent: [3]float32{0, 1, 0},
	}
	assert.Equal(t, [4]float32{1, 0, 0, 1}, TangentWithHandedness(v))

	v.Bitangent = [3]float32{0, -1, 0}
	assert.Equal(t, [4]float32{1, 0, 0, -1}, TangentWithHandedness(v))
}

func TestExportGLTFRoundTrip(t *testing.T) {
	data, err := mesh.NewIcosphere(2, 2, mesh.WithIndexed(true))
	require.NoError(t, err)

	for _, name := range []string{"sphere.glb", "sphere.gltf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, ExportGLTF(path, data))

			doc, err := gltf.Open(path)
			require.NoError(t, err)
			require.Len(t, doc.Meshes, 1)
			prim := doc.Meshes[0].Primitives[0]
			assert.Equal(t, uint32(len(data.Vertices)), doc.Accessors[prim.Attributes[gltf.POSITION]].Count)
			require.NotNil(t, prim.Indices)
			assert.Equal(t, uint32(len(data.Indices)), doc.Accessors[*prim.Indices].Count)
		})
	}
}

func TestWriteRaw(t *testing.T) {
	data, err := mesh.NewQuad(2, 2)
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "quad")
	files, err := WriteRaw(prefix, data)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + ".vertices.bin", prefix + ".indices.bin"}, files)

	vb, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, data.VertexBytes(), vb)

	ib, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.Len(t, ib, 24)

	flat, err := data.Flatten()
	require.NoError(t, err)
	files, err = WriteRaw(prefix+"_flat", flat)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

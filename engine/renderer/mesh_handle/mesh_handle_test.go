package mesh_handle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	descriptors []wgpu.BufferInitDescriptor
	buffers     []*wgpu.Buffer
	failOn      int
}

func (d *fakeDevice) CreateBufferInit(desc *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error) {
	d.descriptors = append(d.descriptors, *desc)
	if d.failOn == len(d.descriptors) {
		return nil, errors.New("out of memory")
	}
	buf := &wgpu.Buffer{}
	d.buffers = append(d.buffers, buf)
	return buf, nil
}

type fakePass struct {
	calls []string
}

func (p *fakePass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) {
	p.calls = append(p.calls, fmt.Sprintf("SetBindGroup(%d)", groupIndex))
}

func (p *fakePass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64) {
	p.calls = append(p.calls, fmt.Sprintf("SetVertexBuffer(%d)", slot))
}

func (p *fakePass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64) {
	p.calls = append(p.calls, fmt.Sprintf("SetIndexBuffer(uint32=%t)", format == wgpu.IndexFormatUint32))
}

func (p *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("Draw(%d, %d, %d, %d)", vertexCount, instanceCount, firstVertex, firstInstance))
}

func (p *fakePass) DrawIndexed(indexCount uint32, instanceCount uint32, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("DrawIndexed(%d, %d, %d, %d, %d)", indexCount, instanceCount, firstIndex, baseVertex, firstInstance))
}

type releaseRecorder struct {
	released []*wgpu.Buffer
}

func (r *releaseRecorder) option() MeshHandleOption {
	return WithBufferReleaser(func(b *wgpu.Buffer) {
		r.released = append(r.released, b)
	})
}

func TestUploadIndexed(t *testing.T) {
	data, err := mesh.NewQuad(2, 2)
	require.NoError(t, err)

	dev := &fakeDevice{}
	rec := &releaseRecorder{}
	h, err := Upload(dev, "quad", data, rec.option())
	require.NoError(t, err)

	require.Len(t, dev.descriptors, 2)
	vb, ib := dev.descriptors[0], dev.descriptors[1]
	assert.Equal(t, "quad Vertex Buffer", vb.Label)
	assert.Equal(t, data.VertexBytes(), vb.Contents)
	assert.Len(t, vb.Contents, 4*mesh.GPUMeshVertexStride)
	assert.NotZero(t, vb.Usage&wgpu.BufferUsageVertex)
	assert.Equal(t, "quad Index Buffer", ib.Label)
	assert.NotZero(t, ib.Usage&wgpu.BufferUsageIndex)
	require.Len(t, ib.Contents, 24)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(ib.Contents[8:]))

	assert.True(t, h.Indexed())
	assert.Equal(t, uint32(6), h.NumElements())
	assert.Same(t, dev.buffers[0], h.VertexBuffer())
	assert.Same(t, dev.buffers[1], h.IndexBuffer())

	h.Release()
	assert.Equal(t, dev.buffers, rec.released)
	assert.Nil(t, h.VertexBuffer())
	assert.Nil(t, h.IndexBuffer())

	h.Release()
	assert.Len(t, rec.released, 2, "second release is a no-op")
}

func TestUploadNonIndexed(t *testing.T) {
	data, err := mesh.NewIcosphere(1, 1, mesh.WithIndexed(false))
	require.NoError(t, err)

	dev := &fakeDevice{}
	h, err := Upload(dev, "sphere", data, (&releaseRecorder{}).option())
	require.NoError(t, err)

	require.Len(t, dev.descriptors, 1)
	assert.Len(t, dev.descriptors[0].Contents, 240*mesh.GPUMeshVertexStride)
	assert.False(t, h.Indexed())
	assert.Nil(t, h.IndexBuffer())
	assert.Equal(t, uint32(240), h.NumElements())
}

func TestUploadRejectsEmptyMesh(t *testing.T) {
	dev := &fakeDevice{}
	_, err := Upload(dev, "empty", &mesh.MeshData{})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, err = Upload(dev, "nil", nil)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, err = Upload(dev, "no indices", &mesh.MeshData{Vertices: make([]mesh.GPUMeshVertex, 3), Indices: []uint32{}})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	assert.Empty(t, dev.descriptors)
}

func TestUploadReleasesVertexBufferOnIndexFailure(t *testing.T) {
	data, err := mesh.NewQuad(1, 1)
	require.NoError(t, err)

	dev := &fakeDevice{failOn: 2}
	rec := &releaseRecorder{}
	h, err := Upload(dev, "quad", data, rec.option())
	assert.Nil(t, h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index buffer")
	require.Len(t, rec.released, 1)
	assert.Same(t, dev.buffers[0], rec.released[0])
}

func TestDrawIndexed(t *testing.T) {
	data, err := mesh.NewQuad(2, 2)
	require.NoError(t, err)
	h, err := Upload(&fakeDevice{}, "quad", data, (&releaseRecorder{}).option())
	require.NoError(t, err)

	pass := &fakePass{}
	h.Draw(pass, &wgpu.BindGroup{}, &wgpu.BindGroup{})
	assert.Equal(t, []string{
		"SetBindGroup(0)",
		"SetBindGroup(1)",
		"SetVertexBuffer(0)",
		"SetIndexBuffer(uint32=true)",
		"DrawIndexed(6, 1, 0, 0, 0)",
	}, pass.calls)
}

func TestDrawInstancedNonIndexed(t *testing.T) {
	data, err := mesh.NewQuad(2, 2, mesh.WithIndexed(false))
	require.NoError(t, err)
	h, err := Upload(&fakeDevice{}, "quad", data, (&releaseRecorder{}).option())
	require.NoError(t, err)

	pass := &fakePass{}
	h.DrawInstanced(pass, InstanceRange{First: 3, Count: 100}, &wgpu.BindGroup{})
	assert.Equal(t, []string{
		"SetBindGroup(0)",
		"SetVertexBuffer(0)",
		"Draw(6, 100, 0, 3)",
	}, pass.calls)
}

package mesh_handle

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferDevice is the part of *wgpu.Device needed to upload mesh data.
type BufferDevice interface {
	CreateBufferInit(descriptor *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
}

// RenderPass is the part of *wgpu.RenderPassEncoder a MeshHandle records draws into.
type RenderPass interface {
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount uint32, instanceCount uint32, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ RenderPass = (*wgpu.RenderPassEncoder)(nil)
var _ BufferDevice = (*wgpu.Device)(nil)

// InstanceRange selects which instances a draw covers.
type InstanceRange struct {
	First uint32
	Count uint32
}

// meshHandle is the implementation of the MeshHandle interface.
type meshHandle struct {
	// label is a debug label, used as the prefix of the GPU buffer labels.
	label string

	// vertexBuffer holds the packed GPUMeshVertex records.
	vertexBuffer *wgpu.Buffer
	// indexBuffer holds uint32 indices, or nil for a flattened mesh.
	indexBuffer *wgpu.Buffer
	// numElements is the index count when indexBuffer is set, the vertex count otherwise.
	numElements uint32

	// releaseBuffer frees a GPU buffer. Defaults to (*wgpu.Buffer).Release.
	releaseBuffer func(*wgpu.Buffer)
}

// MeshHandle is the GPU-resident form of one generated mesh: a vertex buffer in the
// GPUMeshVertex layout, an optional index buffer, and the element count to draw.
// A handle is immutable once uploaded; regenerating a mesh means uploading a new handle and
// releasing the old one.
type MeshHandle interface {
	// Label returns the debug label for this handle.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// VertexBuffer returns the GPU vertex buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer, or nil after Release
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer, or nil for a non-indexed mesh or after Release
	IndexBuffer() *wgpu.Buffer

	// NumElements returns the number of indices (indexed) or vertices (non-indexed) a draw covers.
	//
	// Returns:
	//   - uint32: the element count
	NumElements() uint32

	// Indexed reports whether the handle draws through an index buffer.
	//
	// Returns:
	//   - bool: true if an index buffer is bound on draw
	Indexed() bool

	// Draw records a single-instance draw of the whole mesh.
	//
	// Parameters:
	//   - pass: the render pass to record into, with a compatible pipeline already set
	//   - bindGroups: bind groups set at indices 0..n-1 in order before drawing
	Draw(pass RenderPass, bindGroups ...*wgpu.BindGroup)

	// DrawInstanced records a draw of the whole mesh for the given instance range.
	//
	// Parameters:
	//   - pass: the render pass to record into, with a compatible pipeline already set
	//   - instances: the instances to draw
	//   - bindGroups: bind groups set at indices 0..n-1 in order before drawing
	DrawInstanced(pass RenderPass, instances InstanceRange, bindGroups ...*wgpu.BindGroup)

	// Release frees the GPU buffers. The handle must not be drawn afterwards.
	Release()
}

var _ MeshHandle = &meshHandle{}

// Upload copies data into new GPU buffers and returns a handle that can draw it.
//
// Parameters:
//   - device: the device that creates the buffers (usually *wgpu.Device)
//   - label: debug label for the buffers
//   - data: the generated mesh
//   - options: functional options to configure the handle
//
// Returns:
//   - MeshHandle: the uploaded mesh
//   - error: ErrInvalidParameter for an empty mesh, or the wrapped buffer creation error
func Upload(device BufferDevice, label string, data *mesh.MeshData, options ...MeshHandleOption) (MeshHandle, error) {
	if data == nil || len(data.Vertices) == 0 {
		return nil, fmt.Errorf("mesh %q has no vertices: %w", label, common.ErrInvalidParameter)
	}
	if data.Indexed() && len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q has an empty index list: %w", label, common.ErrInvalidParameter)
	}

	h := &meshHandle{
		label:         label,
		numElements:   data.ElementCount(),
		releaseBuffer: (*wgpu.Buffer).Release,
	}
	for _, opt := range options {
		opt(h)
	}

	vb, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " Vertex Buffer",
		Contents: data.VertexBytes(),
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer for %q: %w", label, err)
	}
	h.vertexBuffer = vb

	if data.Indexed() {
		ib, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label + " Index Buffer",
			Contents: data.IndexBytes(),
			Usage:    wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			h.Release()
			return nil, fmt.Errorf("failed to create index buffer for %q: %w", label, err)
		}
		h.indexBuffer = ib
	}

	return h, nil
}

func (h *meshHandle) Label() string {
	return h.label
}

func (h *meshHandle) VertexBuffer() *wgpu.Buffer {
	return h.vertexBuffer
}

func (h *meshHandle) IndexBuffer() *wgpu.Buffer {
	return h.indexBuffer
}

func (h *meshHandle) NumElements() uint32 {
	return h.numElements
}

func (h *meshHandle) Indexed() bool {
	return h.indexBuffer != nil
}

func (h *meshHandle) Draw(pass RenderPass, bindGroups ...*wgpu.BindGroup) {
	h.DrawInstanced(pass, InstanceRange{First: 0, Count: 1}, bindGroups...)
}

func (h *meshHandle) DrawInstanced(pass RenderPass, instances InstanceRange, bindGroups ...*wgpu.BindGroup) {
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}

	pass.SetVertexBuffer(0, h.vertexBuffer, 0, wgpu.WholeSize)
	if h.indexBuffer != nil {
		pass.SetIndexBuffer(h.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(h.numElements, instances.Count, 0, 0, instances.First)
		return
	}
	pass.Draw(h.numElements, instances.Count, 0, instances.First)
}

func (h *meshHandle) Release() {
	if h.vertexBuffer != nil {
		h.releaseBuffer(h.vertexBuffer)
		h.vertexBuffer = nil
	}
	if h.indexBuffer != nil {
		h.releaseBuffer(h.indexBuffer)
		h.indexBuffer = nil
	}
}

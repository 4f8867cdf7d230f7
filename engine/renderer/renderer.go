package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/mesh_handle"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mesh/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws uploaded meshes into a window surface. A frame is BeginFrame, any number of
// DrawMesh calls, EndFrame, then Present.
type Renderer interface {
	// Device returns the GPU device meshes are uploaded to.
	Device() *wgpu.Device

	// Pipeline returns the registered pipeline for key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines validates and creates GPU pipelines. Keys that are already registered
	// are skipped.
	//
	// Parameters:
	//   - pipelines: the pipelines to create
	//
	// Returns:
	//   - error: the first validation or creation error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size. Zero sizes are ignored.
	Resize(width, height int)

	// SetPresentMode switches between vsync and uncapped presentation on the next Resize.
	SetPresentMode(mode PresentMode)

	// InitBindGroup creates the layout, buffers and bind group described by descriptor on provider.
	//
	// Parameters:
	//   - provider: receives the created GPU objects
	//   - descriptor: the layout of the group
	//
	// Returns:
	//   - error: a creation error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues writes into provider buffers.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// UploadMesh creates GPU buffers for data.
	//
	// Parameters:
	//   - label: GPU label prefix
	//   - data: the mesh to upload
	//
	// Returns:
	//   - mesh_handle.MeshHandle: the uploaded mesh, owned by the caller
	//   - error: ErrInvalidParameter for empty data, or a buffer creation error
	UploadMesh(label string, data *mesh.MeshData) (mesh_handle.MeshHandle, error)

	// BeginFrame acquires the next surface texture and begins the main render pass.
	BeginFrame() error

	// DrawMesh records a draw of handle with the given pipeline and bind groups (group i = bindGroups[i]).
	//
	// Parameters:
	//   - pipelineKey: key of a registered pipeline
	//   - handle: the mesh to draw
	//   - bindGroups: providers bound in order from group 0
	//
	// Returns:
	//   - error: ErrInvalidParameter for an unknown pipeline key or a nil handle
	DrawMesh(pipelineKey string, handle mesh_handle.MeshHandle, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the recorded commands.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Release frees pipelines and surface resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer for win and configures the surface at the window's size.
// Panics if no adapter or device is available, like the window constructor.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - win: the window to render into
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.Resize(win.Width(), win.Height())
	return r
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.logger.Error("failed to configure surface", "width", width, "height", height, "err", err)
		return
	}
	r.logger.Debug("surface configured", "width", width, "height", height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) UploadMesh(label string, data *mesh.MeshData) (mesh_handle.MeshHandle, error) {
	return r.backend.UploadMesh(label, data)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawMesh(pipelineKey string, handle mesh_handle.MeshHandle, bindGroups []bind_group_provider.BindGroupProvider) error {
	if handle == nil {
		return fmt.Errorf("draw with pipeline %q: nil mesh: %w", pipelineKey, common.ErrInvalidParameter)
	}
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("unknown pipeline %q: %w", pipelineKey, common.ErrInvalidParameter)
	}
	r.backend.DrawMesh(p, handle, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

package mesh_handle

import "github.com/cogentcore/webgpu/wgpu"

// MeshHandleOption is a functional option used to configure a MeshHandle during Upload.
type MeshHandleOption func(*meshHandle)

// WithBufferReleaser replaces the function used to free GPU buffers on Release.
//
// Parameters:
//   - release: called once for each buffer the handle owns
//
// Returns:
//   - MeshHandleOption: a function that sets the releaser for this handle
func WithBufferReleaser(release func(*wgpu.Buffer)) MeshHandleOption {
	return func(h *meshHandle) {
		h.releaseBuffer = release
	}
}

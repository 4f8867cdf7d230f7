package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBufferSize sets the size of the buffer the renderer creates for a binding. Without it
// the layout entry's MinBindingSize is used.
//
// Parameters:
//   - binding: the binding index
//   - size: buffer size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that records the size
func WithBufferSize(binding int, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bufferSizes[binding] = size
	}
}

package mesh

import "log/slog"

// MaxIcosphereIterations is the default cap on subdivision rounds. Level 6 already produces
// 81920 triangles; every further level multiplies that by four.
const MaxIcosphereIterations = 6

// generatorConfig collects the options shared by every generator.
type generatorConfig struct {
	indexed         bool
	sharedMidpoints bool
	tangentPolicy   TangentPolicy
	maxIterations   uint32
	logger          *slog.Logger
}

// GeneratorOption is a functional option for configuring a generator call.
// Use the With* functions to create options.
type GeneratorOption func(c *generatorConfig)

func newGeneratorConfig(opts []GeneratorOption) *generatorConfig {
	c := &generatorConfig{
		indexed:       true,
		tangentPolicy: TangentPolicyPropagate,
		maxIterations: MaxIcosphereIterations,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// WithIndexed selects indexed output (shared vertices plus an index list) or flattened output
// where every triangle corner is its own vertex. Defaults to true.
//
// Parameters:
//   - indexed: true for an index buffer, false for a flattened vertex list
//
// Returns:
//   - GeneratorOption: option function to apply
func WithIndexed(indexed bool) GeneratorOption {
	return func(c *generatorConfig) {
		c.indexed = indexed
	}
}

// WithSharedMidpoints makes icosphere subdivision reuse the midpoint of an edge for both
// triangles that share it, giving 10*4^N+2 vertices instead of 12+20*(4^N-1).
// Defaults to false.
//
// Parameters:
//   - shared: true to cache edge midpoints during each subdivision round
//
// Returns:
//   - GeneratorOption: option function to apply
func WithSharedMidpoints(shared bool) GeneratorOption {
	return func(c *generatorConfig) {
		c.sharedMidpoints = shared
	}
}

// WithTangentPolicy sets how singular UV triangles are handled by the tangent solver.
//
// Parameters:
//   - policy: the TangentPolicy to apply
//
// Returns:
//   - GeneratorOption: option function to apply
func WithTangentPolicy(policy TangentPolicy) GeneratorOption {
	return func(c *generatorConfig) {
		c.tangentPolicy = policy
	}
}

// WithMaxIterations overrides MaxIcosphereIterations for this call.
//
// Parameters:
//   - limit: highest accepted subdivision count
//
// Returns:
//   - GeneratorOption: option function to apply
func WithMaxIterations(limit uint32) GeneratorOption {
	return func(c *generatorConfig) {
		c.maxIterations = limit
	}
}

// WithLogger routes generator debug output to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(c *generatorConfig) {
		c.logger = logger
	}
}

package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
)

// meshControls maps viewer keys onto the parameters of the displayed mesh. It holds the last
// requested params; the mesh on screen may still be an older one while a rebuild runs.
type meshControls struct {
	params mesh.MeshParams

	maxIterations uint32
	radiusStep    float32
	maxRadius     float32

	// quad and sphere remember the params of the shape not on screen so Q flips back to them.
	quad   mesh.MeshParams
	sphere mesh.MeshParams
}

// newMeshControls starts from the configured mesh.
//
// Parameters:
//   - cfg: validated configuration
//
// Returns:
//   - *meshControls: the controls
//   - error: the configuration's mesh params error
func newMeshControls(cfg config.Config) (*meshControls, error) {
	params, err := cfg.MeshParams()
	if err != nil {
		return nil, err
	}

	c := &meshControls{
		params:        params,
		maxIterations: cfg.Mesh.MaxIterations,
		radiusStep:    cfg.Viewer.RadiusStep,
		maxRadius:     cfg.Viewer.MaxRadius,
		quad:          params,
		sphere:        params,
	}
	c.quad.Shape = mesh.ShapeQuad
	c.sphere.Shape = mesh.ShapeIcosphere
	if c.sphere.Radius <= 0 {
		c.sphere.Radius = mesh.DefaultIcosphereParams().Radius
	}
	return c, nil
}

// Params returns the most recently requested mesh params.
func (c *meshControls) Params() mesh.MeshParams {
	return c.params
}

// HandleKey applies a key press and reports whether the mesh has to be rebuilt.
//
//	+ / -   subdivision iterations (icosphere)
//	] / [   radius (icosphere)
//	I       indexed / flattened
//	Q       icosphere / quad
//
// Parameters:
//   - keyCode: a common.Key* code
//
// Returns:
//   - bool: true when the params changed
func (c *meshControls) HandleKey(keyCode uint32) bool {
	before := c.params
	sphere := c.params.Shape == mesh.ShapeIcosphere

	switch keyCode {
	case common.KeyEqual:
		if sphere && c.params.Iterations < c.maxIterations {
			c.params.Iterations++
		}
	case common.KeyMinus:
		if sphere && c.params.Iterations > 0 {
			c.params.Iterations--
		}
	case common.KeyRightBracket:
		if sphere {
			c.params.Radius = common.Clamp(c.params.Radius+c.radiusStep, c.radiusStep, c.maxRadius)
		}
	case common.KeyLeftBracket:
		if sphere {
			c.params.Radius = common.Clamp(c.params.Radius-c.radiusStep, c.radiusStep, c.maxRadius)
		}
	case common.KeyI:
		c.params.Indexed = !c.params.Indexed
	case common.KeyQ:
		if sphere {
			c.sphere = c.params
			c.quad.Indexed = c.params.Indexed
			c.params = c.quad
		} else {
			c.quad = c.params
			c.sphere.Indexed = c.params.Indexed
			c.params = c.sphere
		}
	}
	return c.params != before
}

// windowTitle formats the title bar: the configured title, the displayed mesh and the last
// frame rate.
//
// Parameters:
//   - base: configured window title
//   - params: params of the mesh on screen
//   - stats: its generation stats
//   - fps: frames per second from the profiler, 0 when not yet known
//
// Returns:
//   - string: the title
func windowTitle(base string, params mesh.MeshParams, stats mesh.GenerationStats, fps float64) string {
	title := fmt.Sprintf("%s | %s | %d vertices, %d triangles", base, params, stats.Vertices, stats.Triangles)
	if fps > 0 {
		title += fmt.Sprintf(" | %.0f fps", fps)
	}
	return title
}

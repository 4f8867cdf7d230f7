package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestControls(t *testing.T) *meshControls {
	t.Helper()
	c, err := newMeshControls(config.Default())
	require.NoError(t, err)
	return c
}

func TestHandleKeyIterations(t *testing.T) {
	c := newTestControls(t)
	start := c.Params().Iterations

	assert.True(t, c.HandleKey(common.KeyEqual))
	assert.Equal(t, start+1, c.Params().Iterations)

	assert.True(t, c.HandleKey(common.KeyMinus))
	assert.True(t, c.HandleKey(common.KeyMinus))
	assert.True(t, c.HandleKey(common.KeyMinus))
	assert.Equal(t, uint32(0), c.Params().Iterations)
	assert.False(t, c.HandleKey(common.KeyMinus), "iterations do not go below zero")

	for range c.maxIterations + 2 {
		c.HandleKey(common.KeyEqual)
	}
	assert.Equal(t, c.maxIterations, c.Params().Iterations)
}

func TestHandleKeyRadius(t *testing.T) {
	c := newTestControls(t)

	assert.True(t, c.HandleKey(common.KeyRightBracket))
	assert.InDelta(t, 1.1, c.Params().Radius, 1e-5)

	for range 100 {
		c.HandleKey(common.KeyLeftBracket)
	}
	assert.InDelta(t, c.radiusStep, c.Params().Radius, 1e-5, "radius stays positive")
	assert.False(t, c.HandleKey(common.KeyLeftBracket))

	for range 100 {
		c.HandleKey(common.KeyRightBracket)
	}
	assert.Equal(t, c.maxRadius, c.Params().Radius)
}

func TestHandleKeyIndexedAndShape(t *testing.T) {
	c := newTestControls(t)
	require.Equal(t, mesh.ShapeIcosphere, c.Params().Shape)

	assert.True(t, c.HandleKey(common.KeyI))
	assert.True(t, c.Params().Indexed)

	c.HandleKey(common.KeyEqual)
	sphereIterations := c.Params().Iterations

	assert.True(t, c.HandleKey(common.KeyQ))
	assert.Equal(t, mesh.ShapeQuad, c.Params().Shape)
	assert.True(t, c.Params().Indexed, "indexed carries across shapes")

	assert.False(t, c.HandleKey(common.KeyEqual), "iterations only apply to the icosphere")
	assert.False(t, c.HandleKey(common.KeyRightBracket))

	assert.True(t, c.HandleKey(common.KeyQ))
	assert.Equal(t, mesh.ShapeIcosphere, c.Params().Shape)
	assert.Equal(t, sphereIterations, c.Params().Iterations, "sphere params are restored")
}

func TestHandleKeyIgnoresOtherKeys(t *testing.T) {
	c := newTestControls(t)
	assert.False(t, c.HandleKey(common.KeySpace))
	assert.False(t, c.HandleKey(common.KeyLeft))
}

func TestWindowTitle(t *testing.T) {
	p := mesh.DefaultIcosphereParams()
	stats := mesh.GenerationStats{Vertices: 960, Triangles: 320}

	assert.Equal(t, "oxy-mesh | icosphere r=1.00 it=2 indexed=false | 960 vertices, 320 triangles",
		windowTitle("oxy-mesh", p, stats, 0))
	assert.Equal(t, "oxy-mesh | icosphere r=1.00 it=2 indexed=false | 960 vertices, 320 triangles | 60 fps",
		windowTitle("oxy-mesh", p, stats, 59.9))
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.MeshParams()
	require.NoError(t, err)
	want := mesh.DefaultIcosphereParams()
	assert.Equal(t, want.Shape, p.Shape)
	assert.Equal(t, want.Radius, p.Radius)
	assert.Equal(t, want.Iterations, p.Iterations)
	assert.Equal(t, want.Indexed, p.Indexed)
	assert.Equal(t, mesh.TangentPolicyPropagate, p.TangentPolicy)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
mesh:
  shape: quad
  width: 4
  indexed: true
  tangent_policy: fallback
viewer:
  vsync: false
`))
	require.NoError(t, err)

	assert.Equal(t, "quad", cfg.Mesh.Shape)
	assert.Equal(t, float32(4), cfg.Mesh.Width)
	assert.Equal(t, float32(2), cfg.Mesh.Height, "unset keys keep their default")
	assert.False(t, cfg.Viewer.VSync)
	assert.Equal(t, 1280, cfg.Viewer.Width)

	p, err := cfg.MeshParams()
	require.NoError(t, err)
	assert.Equal(t, mesh.TangentPolicyFallback, p.TangentPolicy)
	assert.True(t, p.Indexed)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseCoalescesBlankStrings(t *testing.T) {
	cfg, err := Parse([]byte("export:\n  name: \"\"\nviewer:\n  title: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Mesh", cfg.Export.Name)
	assert.Equal(t, "oxy-mesh", cfg.Viewer.Title)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "mesh:\n  colour: red\n",
		"unknown shape":  "mesh:\n  shape: torus\n",
		"unknown policy": "mesh:\n  tangent_policy: gram-schmidt\n",
		"bad log level":  "log_level: loud\n",
		"bad fov":        "viewer:\n  fov_degrees: 190\n",
		"bad size":       "viewer:\n  width: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("mesh:\n  shape: torus\n"))
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mesh:\n  radius: 2.5\n  iterations: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), cfg.Mesh.Radius)
	assert.Equal(t, uint32(3), cfg.Mesh.Iterations)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

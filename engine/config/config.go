package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"gopkg.in/yaml.v3"
)

// MeshConfig is the YAML form of mesh.MeshParams.
type MeshConfig struct {
	Shape           string  `yaml:"shape"`
	Width           float32 `yaml:"width"`
	Height          float32 `yaml:"height"`
	Radius          float32 `yaml:"radius"`
	Iterations      uint32  `yaml:"iterations"`
	Indexed         bool    `yaml:"indexed"`
	SharedMidpoints bool    `yaml:"shared_midpoints"`
	TangentPolicy   string  `yaml:"tangent_policy"`
	MaxIterations   uint32  `yaml:"max_iterations"`
}

// ExportConfig controls what the command-line generator writes.
type ExportConfig struct {
	Path      string `yaml:"path"`
	RawPrefix string `yaml:"raw_prefix"`
	Name      string `yaml:"name"`
	Material  bool   `yaml:"material"`
}

// ViewerConfig controls the interactive viewer window and controls.
type ViewerConfig struct {
	Title          string  `yaml:"title"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	VSync          bool    `yaml:"vsync"`
	FovDegrees     float32 `yaml:"fov_degrees"`
	CameraDistance float32 `yaml:"camera_distance"`
	RadiusStep     float32 `yaml:"radius_step"`
	MaxRadius      float32 `yaml:"max_radius"`
	Workers        int     `yaml:"workers"`
}

// Config is the root of an oxy-mesh YAML file.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Mesh     MeshConfig   `yaml:"mesh"`
	Export   ExportConfig `yaml:"export"`
	Viewer   ViewerConfig `yaml:"viewer"`
}

// Default returns the configuration used when no file is given: the viewer's radius-1,
// two-iteration flattened icosphere and a 1280x720 window.
func Default() Config {
	return Config{
		LogLevel: "info",
		Mesh: MeshConfig{
			Shape:         string(mesh.ShapeIcosphere),
			Width:         2,
			Height:        2,
			Radius:        1,
			Iterations:    2,
			Indexed:       false,
			TangentPolicy: mesh.TangentPolicyPropagate.String(),
			MaxIterations: mesh.MaxIcosphereIterations,
		},
		Export: ExportConfig{
			Name:     "Mesh",
			Material: true,
		},
		Viewer: ViewerConfig{
			Title:          "oxy-mesh",
			Width:          1280,
			Height:         720,
			VSync:          true,
			FovDegrees:     45,
			CameraDistance: 4,
			RadiusStep:     0.1,
			MaxRadius:      5,
			Workers:        2,
		},
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep their default
// value; unknown keys are an error.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes on top of Default and validates the result.
//
// Parameters:
//   - raw: YAML document
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: a parse or validation error
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse yaml: %w", err)
	}

	def := Default()
	cfg.Export.Name = common.Coalesce(cfg.Export.Name, def.Export.Name)
	cfg.Viewer.Title = common.Coalesce(cfg.Viewer.Title, def.Viewer.Title)
	cfg.Mesh.MaxIterations = common.Coalesce(cfg.Mesh.MaxIterations, def.Mesh.MaxIterations)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a generator or the viewer would reject later.
//
// Returns:
//   - error: the first problem found, wrapping common.ErrInvalidParameter
func (c Config) Validate() error {
	if _, err := c.MeshParams(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size %dx%d: %w", c.Viewer.Width, c.Viewer.Height, common.ErrInvalidParameter)
	}
	if c.Viewer.FovDegrees <= 0 || c.Viewer.FovDegrees >= 180 {
		return fmt.Errorf("viewer fov %v: %w", c.Viewer.FovDegrees, common.ErrInvalidParameter)
	}
	if c.Viewer.RadiusStep <= 0 || c.Viewer.MaxRadius <= 0 {
		return fmt.Errorf("viewer radius step %v / max %v: %w", c.Viewer.RadiusStep, c.Viewer.MaxRadius, common.ErrInvalidParameter)
	}
	return nil
}

// MeshParams converts the mesh section into generator parameters. Only the shape name and
// tangent policy are checked here; sizes are checked by the generators themselves.
//
// Returns:
//   - mesh.MeshParams: the parameters
//   - error: ErrInvalidParameter for an unknown shape or tangent policy
func (c Config) MeshParams() (mesh.MeshParams, error) {
	shape := mesh.Shape(c.Mesh.Shape)
	if shape != mesh.ShapeQuad && shape != mesh.ShapeIcosphere {
		return mesh.MeshParams{}, fmt.Errorf("unknown shape %q: %w", c.Mesh.Shape, common.ErrInvalidParameter)
	}
	policy, err := mesh.ParseTangentPolicy(c.Mesh.TangentPolicy)
	if err != nil {
		return mesh.MeshParams{}, err
	}
	return mesh.MeshParams{
		Shape:           shape,
		Width:           c.Mesh.Width,
		Height:          c.Mesh.Height,
		Radius:          c.Mesh.Radius,
		Iterations:      c.Mesh.Iterations,
		Indexed:         c.Mesh.Indexed,
		SharedMidpoints: c.Mesh.SharedMidpoints,
		TangentPolicy:   policy,
	}, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
//
// Returns:
//   - slog.Level: the parsed level
//   - error: ErrInvalidParameter for an unknown level name
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(common.Coalesce(c.LogLevel, "info"))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, common.ErrInvalidParameter)
	}
	return level, nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
)

// cliFlags holds the raw command-line values. Only flags the user actually set are applied
// on top of the configuration file.
type cliFlags struct {
	configPath string
	verbose    bool

	shape           string
	radius          float64
	iterations      uint
	width           float64
	height          float64
	indexed         bool
	sharedMidpoints bool
	tangents        string

	out    string
	raw    string
	levels int
}

// newFlagSet registers every meshgen flag on a fresh FlagSet bound to f.
//
// Parameters:
//   - f: receives the parsed values
//   - output: where usage and parse errors are written
//
// Returns:
//   - *flag.FlagSet: the configured flag set
func newFlagSet(f *cliFlags, output io.Writer) *flag.FlagSet {
	def := config.Default()

	fs := flag.NewFlagSet("meshgen", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&f.verbose, "v", false, "enable debug logging")

	fs.StringVar(&f.shape, "shape", def.Mesh.Shape, "mesh shape: quad or icosphere")
	fs.Float64Var(&f.radius, "radius", float64(def.Mesh.Radius), "icosphere radius")
	fs.UintVar(&f.iterations, "iterations", uint(def.Mesh.Iterations), "icosphere subdivision iterations")
	fs.Float64Var(&f.width, "width", float64(def.Mesh.Width), "quad width")
	fs.Float64Var(&f.height, "height", float64(def.Mesh.Height), "quad height")
	fs.BoolVar(&f.indexed, "indexed", def.Mesh.Indexed, "emit an index buffer instead of flattened vertices")
	fs.BoolVar(&f.sharedMidpoints, "shared-midpoints", def.Mesh.SharedMidpoints, "share edge midpoints between neighbouring triangles")
	fs.StringVar(&f.tangents, "tangents", def.Mesh.TangentPolicy, "singular uv handling: propagate, reject or fallback")

	fs.StringVar(&f.out, "out", "", "write a .glb or .gltf file")
	fs.StringVar(&f.raw, "raw", "", "dump raw GPU buffers to <prefix>.vertices.bin / <prefix>.indices.bin")
	fs.IntVar(&f.levels, "levels", -1, "export icosphere iterations 0..N, one file per level")

	return fs
}

// resolveConfig loads the configuration file (or the defaults) and applies every flag that
// was set explicitly on fs.
//
// Parameters:
//   - fs: the parsed flag set
//   - f: the values bound to fs
//
// Returns:
//   - config.Config: the merged, validated configuration
//   - error: a load or validation error
func resolveConfig(fs *flag.FlagSet, f *cliFlags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "shape":
			cfg.Mesh.Shape = f.shape
		case "radius":
			cfg.Mesh.Radius = float32(f.radius)
		case "iterations":
			cfg.Mesh.Iterations = uint32(f.iterations)
		case "width":
			cfg.Mesh.Width = float32(f.width)
		case "height":
			cfg.Mesh.Height = float32(f.height)
		case "indexed":
			cfg.Mesh.Indexed = f.indexed
		case "shared-midpoints":
			cfg.Mesh.SharedMidpoints = f.sharedMidpoints
		case "tangents":
			cfg.Mesh.TangentPolicy = f.tangents
		case "out":
			cfg.Export.Path = f.out
		case "raw":
			cfg.Export.RawPrefix = f.raw
		case "v":
			if f.verbose {
				cfg.LogLevel = "debug"
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// checkLevels validates a -levels request against the resolved configuration.
func checkLevels(cfg config.Config, levels int) error {
	if levels < 0 {
		return nil
	}
	if cfg.Mesh.Shape != string(mesh.ShapeIcosphere) {
		return fmt.Errorf("-levels needs an icosphere, got %q: %w", cfg.Mesh.Shape, common.ErrInvalidParameter)
	}
	if cfg.Export.Path == "" {
		return fmt.Errorf("-levels needs -out: %w", common.ErrInvalidParameter)
	}
	if uint32(levels) > cfg.Mesh.MaxIterations {
		return fmt.Errorf("-levels %d is above the limit of %d: %w", levels, cfg.Mesh.MaxIterations, common.ErrResourceLimitExceeded)
	}
	return nil
}

// levelPath inserts "_it<level>" before the extension of path.
//
// Parameters:
//   - path: the -out path
//   - level: subdivision iterations of the file
//
// Returns:
//   - string: e.g. "sphere_it3.glb" for "sphere.glb" and level 3
func levelPath(path string, level uint32) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_it%d%s", strings.TrimSuffix(path, ext), level, ext)
}

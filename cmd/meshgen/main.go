// Command meshgen generates a quad or icosphere and writes it as glTF and/or raw GPU buffers.
//
//	meshgen -shape icosphere -iterations 3 -radius 2 -out sphere.glb
//	meshgen -levels 5 -out sphere.glb          # sphere_it0.glb .. sphere_it5.glb
//	meshgen -shape quad -indexed -raw quad     # quad.vertices.bin, quad.indices.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-mesh/engine/exporter"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/Carmen-Shannon/oxy-mesh/engine/profiler"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("meshgen failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var f cliFlags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(fs, &f)
	if err != nil {
		return err
	}
	if err := checkLevels(cfg, f.levels); err != nil {
		return err
	}

	// ── Logging ──────────────────────────────────────────────────────────
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Batch export ─────────────────────────────────────────────────────
	if f.levels >= 0 {
		results, err := exportLevels(cfg, uint32(f.levels), cfg.Viewer.Workers, stderr, logger)
		for _, r := range results {
			fmt.Fprintf(stdout, "%-24s it=%d vertices=%d triangles=%d seam=%d+%d elapsed=%s\n",
				r.Path, r.Level, r.Stats.Vertices, r.Stats.Triangles, r.Stats.SeamDuplicates, r.Stats.SeamShifted, r.Elapsed)
		}
		return err
	}

	// ── Single mesh ──────────────────────────────────────────────────────
	params, err := cfg.MeshParams()
	if err != nil {
		return err
	}

	prof := profiler.NewProfiler(profiler.WithLogger(logger))
	var data *mesh.MeshData
	m, err := prof.Measure(params.String(), func() error {
		var genErr error
		data, genErr = mesh.Generate(params, mesh.WithMaxIterations(cfg.Mesh.MaxIterations), mesh.WithLogger(logger))
		return genErr
	})
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", params, err)
	}
	printSummary(stdout, params, data, m)

	// ── Output ───────────────────────────────────────────────────────────
	if cfg.Export.Path != "" {
		if err := exporter.ExportGLTF(cfg.Export.Path, data, exportOptions(cfg, logger)...); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", cfg.Export.Path)
	}
	if cfg.Export.RawPrefix != "" {
		written, err := exporter.WriteRaw(cfg.Export.RawPrefix, data)
		for _, path := range written {
			fmt.Fprintf(stdout, "wrote %s\n", path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// printSummary writes the counts of one generated mesh.
func printSummary(w io.Writer, params mesh.MeshParams, data *mesh.MeshData, m profiler.Measurement) {
	s := data.Stats
	fmt.Fprintf(w, "%s\n", params)
	fmt.Fprintf(w, "  vertices:        %d\n", s.Vertices)
	fmt.Fprintf(w, "  indices:         %d\n", s.Indices)
	fmt.Fprintf(w, "  triangles:       %d\n", s.Triangles)
	fmt.Fprintf(w, "  seam duplicates: %d\n", s.SeamDuplicates)
	fmt.Fprintf(w, "  seam shifted:    %d\n", s.SeamShifted)
	if s.DegenerateTriangles > 0 {
		fmt.Fprintf(w, "  degenerate uv:   %d\n", s.DegenerateTriangles)
	}
	fmt.Fprintf(w, "  elapsed:         %s (%.2f MB allocated)\n", m.Elapsed, m.AllocatedMB)
}

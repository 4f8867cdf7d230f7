package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/exporter"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/schollz/progressbar/v3"
)

// levelResult is what one batch task reports back.
type levelResult struct {
	Level   uint32
	Path    string
	Stats   mesh.GenerationStats
	Elapsed time.Duration
}

// exportLevels generates and exports the icosphere at every iteration count from 0 to levels,
// one file per level, on a dynamic worker pool. Progress is drawn to progress.
//
// Parameters:
//   - cfg: resolved configuration; Mesh describes the sphere, Export.Path the file name stem
//   - levels: highest iteration count to export
//   - workers: maximum number of concurrent generations
//   - progress: destination of the progress bar (io.Discard to hide it)
//   - logger: receives per-level records
//
// Returns:
//   - []levelResult: one entry per successful level, in level order
//   - error: every failed level joined together
func exportLevels(cfg config.Config, levels uint32, workers int, progress io.Writer, logger *slog.Logger) ([]levelResult, error) {
	params, err := cfg.MeshParams()
	if err != nil {
		return nil, err
	}

	pool := worker.NewDynamicWorkerPool(max(workers, 1), int(levels)+1, time.Second)
	defer pool.Stop()

	bar := progressbar.NewOptions(int(levels)+1,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("exporting levels"),
		progressbar.OptionShowCount(),
	)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]*levelResult, levels+1)
		errs    []error
	)

	for level := uint32(0); level <= levels; level++ {
		p := params
		p.Iterations = level
		path := levelPath(cfg.Export.Path, level)

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      int(level),
			Payload: p,
			Do: func() (any, error) {
				defer wg.Done()
				defer bar.Add(1)

				res, err := exportLevel(cfg, p, path, logger)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, fmt.Errorf("level %d: %w", p.Iterations, err))
					return nil, err
				}
				results[p.Iterations] = res
				return res, nil
			},
		})
	}

	// The pool's Wait returns once the queue drains, before the last tasks finish.
	wg.Wait()
	_ = bar.Finish()

	out := make([]levelResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, errors.Join(errs...)
}

func exportLevel(cfg config.Config, p mesh.MeshParams, path string, logger *slog.Logger) (*levelResult, error) {
	start := time.Now()
	data, err := mesh.Generate(p, mesh.WithMaxIterations(cfg.Mesh.MaxIterations), mesh.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := exporter.ExportGLTF(path, data, exportOptions(cfg, logger)...); err != nil {
		return nil, err
	}

	res := &levelResult{
		Level:   p.Iterations,
		Path:    path,
		Stats:   data.Stats,
		Elapsed: time.Since(start),
	}
	logger.Info("level exported", "level", res.Level, "path", res.Path, "vertices", res.Stats.Vertices, "elapsed", res.Elapsed)
	return res, nil
}

func exportOptions(cfg config.Config, logger *slog.Logger) []exporter.ExportOption {
	return []exporter.ExportOption{
		exporter.WithName(cfg.Export.Name),
		exporter.WithGenerator("oxy-mesh meshgen"),
		exporter.WithMaterial(cfg.Export.Material),
		exporter.WithLogger(logger),
	}
}

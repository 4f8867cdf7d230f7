// Command meshview shows a generated mesh in an interactive window.
//
// Controls:
//
//	+ / -           subdivision iterations
//	] / [           sphere radius
//	I               toggle indexed / flattened
//	Q               switch icosphere / quad
//	arrows, drag    orbit the camera
//	scroll          zoom
//	Esc             quit
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/camera"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/Carmen-Shannon/oxy-mesh/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/mesh_handle"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mesh/engine/window"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

const meshPipelineKey = "mesh_lit"

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	software := flag.Bool("software", false, "force the fallback (software) adapter")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("meshview failed", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// ── Logging ──────────────────────────────────────────────────────────
	level, _ := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	controls, err := newMeshControls(cfg)
	if err != nil {
		slog.Error("meshview failed", "err", err)
		os.Exit(1)
	}

	// ── Window + Renderer ────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Viewer.Title),
		window.WithWidth(cfg.Viewer.Width),
		window.WithHeight(cfg.Viewer.Height),
	)

	presentMode := renderer.PresentModeVSync
	if !cfg.Viewer.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	rend := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithLogger(logger),
	)

	// ── Pipeline ─────────────────────────────────────────────────────────
	vs, err := shader.NewShader(meshPipelineKey+"_vs", shader.ShaderTypeVertex, shader.MeshLitSource)
	if err != nil {
		panic(err)
	}
	fs, err := shader.NewShader(meshPipelineKey+"_fs", shader.ShaderTypeFragment, shader.MeshLitSource)
	if err != nil {
		panic(err)
	}
	meshPipeline := pipeline.NewPipeline(meshPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexLayouts(mesh.VertexBufferLayout()),
		pipeline.WithBlendEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	if err := rend.RegisterPipelines(meshPipeline); err != nil {
		panic(err)
	}

	// ── Camera ───────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithFov(cfg.Viewer.FovDegrees*math32.Pi/180),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithController(camera.NewOrbitController(camera.WithRadius(cfg.Viewer.CameraDistance))),
	)
	ctrl := cam.Controller()

	cameraUniform := camera.GPUCameraUniform{}
	cameraGroup := bind_group_provider.NewBindGroupProvider("Camera",
		bind_group_provider.WithBufferSize(0, uint64(cameraUniform.Size())),
	)
	if err := rend.InitBindGroup(cameraGroup, meshPipeline.BindGroupLayoutDescriptors()[0]); err != nil {
		panic(err)
	}
	bindGroups := []bind_group_provider.BindGroupProvider{cameraGroup}

	// ── Regeneration ─────────────────────────────────────────────────────
	regen := mesh.NewRegenerator(
		mesh.WithWorkers(cfg.Viewer.Workers),
		mesh.WithGeneratorOptions(mesh.WithMaxIterations(cfg.Mesh.MaxIterations), mesh.WithLogger(logger)),
		mesh.WithRegeneratorLogger(logger),
	)
	regen.Request(controls.Params())

	// ── Input ────────────────────────────────────────────────────────────
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyLeft:
			ctrl.OrbitLeft()
		case common.KeyRight:
			ctrl.OrbitRight()
		case common.KeyUp:
			ctrl.OrbitUp()
		case common.KeyDown:
			ctrl.OrbitDown()
		default:
			if controls.HandleKey(keyCode) {
				seq := regen.Request(controls.Params())
				logger.Debug("mesh change", "seq", seq, "params", controls.Params().String())
			}
		}
	})
	win.SetScrollCallback(ctrl.Zoom)
	win.SetDragCallback(ctrl.Drag)
	win.SetResizeCallback(func(width, height int) {
		rend.Resize(width, height)
		if height > 0 {
			cam.SetAspect(float32(width) / float32(height))
		}
	})

	// ── Frame loop ───────────────────────────────────────────────────────
	prof := profiler.NewProfiler(profiler.WithLogger(logger))
	var (
		handle mesh_handle.MeshHandle
		shown  mesh.RegenerationResult
	)

	win.SetUpdateCallback(func() {
		select {
		case res, ok := <-regen.Results():
			if !ok {
				break
			}
			if res.Err != nil {
				logger.Warn("mesh regeneration failed", "params", res.Params.String(), "err", res.Err)
				break
			}
			next, err := rend.UploadMesh("Mesh", res.Data)
			if err != nil {
				logger.Warn("mesh upload failed", "params", res.Params.String(), "err", err)
				break
			}
			if handle != nil {
				handle.Release()
			}
			handle, shown = next, res
			win.SetTitle(windowTitle(cfg.Viewer.Title, shown.Params, shown.Data.Stats, prof.Last().FPS))
			logger.Info("mesh swapped", "seq", res.Seq, "params", res.Params.String(),
				"vertices", res.Data.Stats.Vertices, "elapsed", res.Elapsed)
		default:
		}

		cam.Update()
		cameraUniform = cam.Uniform()
		rend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: cameraGroup, Binding: 0, Data: cameraUniform.Marshal()},
		})

		if err := rend.BeginFrame(); err != nil {
			logger.Debug("frame skipped", "err", err)
			return
		}
		if handle != nil {
			if err := rend.DrawMesh(meshPipelineKey, handle, bindGroups); err != nil {
				logger.Warn("draw failed", "err", err)
			}
		}
		rend.EndFrame()
		rend.Present()

		if prof.Tick() && shown.Data != nil {
			win.SetTitle(windowTitle(cfg.Viewer.Title, shown.Params, shown.Data.Stats, prof.Last().FPS))
		}
	})

	win.ProcessMessages()

	// ── Shutdown ─────────────────────────────────────────────────────────
	regen.Close()
	if handle != nil {
		handle.Release()
	}
	cameraGroup.Release()
	rend.Release()
	if err := win.Close(); err != nil {
		logger.Debug("window close", "err", err)
	}
}

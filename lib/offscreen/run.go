package offscreen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fosdem/eglrender/lib/config"
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/metrics"
	"github.com/fosdem/eglrender/lib/pnm"
	"github.com/fosdem/eglrender/lib/rendering/shaders"
	"github.com/fosdem/eglrender/lib/stats"
	"github.com/fosdem/eglrender/lib/utils"
)

// BuildScene renders the shader templates for the configured scene.
func BuildScene(cfg *config.Config) (*gpu.Scene, error) {
	if err := cfg.Scene.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	shaderer, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not load shader templates: %w", err)
	}

	fill := utils.ColourParse(cfg.Scene.FillColour)
	vertex, fragment, err := shaderer.Sources(shaders.NewShaderData(fill))
	if err != nil {
		return nil, err
	}

	return &gpu.Scene{
		Triangle:       cfg.Scene.Vertices(),
		VertexShader:   vertex,
		FragmentShader: fragment,
		ClearColour:    utils.ColourParse(cfg.Scene.ClearColour),
		FillColour:     fill,
		Retain:         cfg.ReuseResources,
	}, nil
}

// Run performs the whole render sequence on drv and writes the result to
// cfg.Output. The two display info lines go to stdout. Resources are
// released on every path, and the output file is only created once the
// pixels are in host memory. A failed release is logged but does not fail
// the run.
func Run(drv gpu.Driver, cfg *config.Config, stdout io.Writer) (err error) {
	log := slog.Default().With("module", "offscreen", "backend", drv.Name())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	major, minor, err := config.ParseVersion(cfg.MinVersion)
	if err != nil {
		return err
	}
	caps, err := cfg.Caps.Caps()
	if err != nil {
		return err
	}
	scene, err := BuildScene(cfg)
	if err != nil {
		return err
	}

	m := metrics.NewRunMetrics(drv.Name())
	st := stats.New()
	mark := func(step string) {
		m.ObserveStep(step, st.Mark(step).Seconds())
	}

	s := NewSession(drv, major, minor)
	defer func() {
		if rerr := s.Release(); rerr != nil {
			log.Warn("could not release resources", "err", rerr)
			m.CountError(kindName(rerr))
		}
		mark("release")

		if err != nil {
			m.CountError(kindName(err))
			return
		}
		log.Debug("run finished", "stats", st)
	}()

	info, err := s.AcquireDevice()
	if err != nil {
		return err
	}
	mark("acquire")
	fmt.Fprintf(stdout, "%s Vendor: %s\n", info.API, info.Vendor)
	fmt.Fprintf(stdout, "%s Version: %s\n", info.API, info.Version)

	if err := s.SelectConfiguration(caps); err != nil {
		return err
	}
	mark("configure")

	if err := s.CreateSurface(cfg.Width, cfg.Height); err != nil {
		return err
	}
	mark("surface")

	if err := s.CreateContext(); err != nil {
		return err
	}
	mark("context")

	if err := s.Activate(); err != nil {
		return err
	}
	mark("activate")

	var watch utils.Stopwatch
	watch.Start()
	for i := 0; i < cfg.Iterations; i++ {
		if err := s.Render(scene); err != nil {
			return fmt.Errorf("render call %d: %w", i+1, err)
		}
		st.Rendered(watch.Lap())
		m.RenderCalls.Inc()
	}
	mark("render")

	frame, err := s.ReadPixels()
	if err != nil {
		return err
	}
	st.ReadbackBytes += len(frame.Data)
	m.ReadbackBytes.Add(float64(len(frame.Data)))
	mark("readback")

	if cfg.FlipRows {
		frame.FlipRows()
	}
	if err := pnm.WriteFile(string(cfg.Output), frame); err != nil {
		return err
	}
	mark("write")
	log.Info("wrote output", "path", cfg.Output, "frame", frame.String())

	return nil
}

func kindName(err error) string {
	var gerr *gpu.Error
	if errors.As(err, &gerr) {
		return gerr.Kind.String()
	}
	if errors.Is(err, ErrOutOfOrder) {
		return "out of order"
	}
	return "other"
}

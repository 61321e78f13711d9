// Package offscreen drives one headless render: acquire a display, match a
// configuration, create a pixel-buffer surface and a context, make them
// current, render, read the pixels back and release everything again.
package offscreen

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fosdem/eglrender/lib/encdec"
	"github.com/fosdem/eglrender/lib/gpu"
)

// ErrOutOfOrder is returned when a step is attempted before the step it
// depends on has succeeded.
var ErrOutOfOrder = errors.New("step called out of order")

type state int

const (
	stateNew state = iota
	stateAcquired
	stateConfigured
	stateSurfaceCreated
	stateContextCreated
	stateActive
	stateReleased
)

var stateNames = []string{
	"new",
	"acquired",
	"configured",
	"surface created",
	"context created",
	"active",
	"released",
}

func (s state) String() string {
	return stateNames[s]
}

// Session holds the handles of one render sequence. Its methods must be
// called in declaration order from the thread that owns the context.
type Session struct {
	driver   gpu.Driver
	minMajor int
	minMinor int

	state   state
	pending bool

	display  gpu.Display
	config   gpu.Config
	surface  gpu.Surface
	context  gpu.Context
	renderer gpu.Renderer

	width  int
	height int

	alloc encdec.DumbFrameAllocator
	log   *slog.Logger
}

// NewSession prepares a session on drv that refuses displays older than
// minMajor.minMinor.
func NewSession(drv gpu.Driver, minMajor int, minMinor int) *Session {
	return &Session{
		driver:   drv,
		minMajor: minMajor,
		minMinor: minMinor,
		log:      slog.Default().With("module", "offscreen", "backend", drv.Name()),
	}
}

func (s *Session) expect(op string, want ...state) error {
	for _, w := range want {
		if s.state == w {
			return nil
		}
	}
	return fmt.Errorf("%s in state %s: %w", op, s.state, ErrOutOfOrder)
}

// withKind makes sure err can be matched against kind, unless the driver
// already classified it.
func withKind(kind gpu.Kind, api string, op string, err error) error {
	var gerr *gpu.Error
	if errors.As(err, &gerr) || errors.Is(err, kind) {
		return err
	}
	return gpu.WrapError(kind, api, op, err)
}

func (s *Session) AcquireDevice() (gpu.DisplayInfo, error) {
	if err := s.expect("AcquireDevice", stateNew); err != nil {
		return gpu.DisplayInfo{}, err
	}

	display, err := s.driver.Open()
	if err != nil {
		return gpu.DisplayInfo{}, withKind(gpu.InitializationError, s.driver.Name(), "open", err)
	}

	info := display.Info()
	if !info.AtLeast(s.minMajor, s.minMinor) {
		if terr := display.Terminate(); terr != nil {
			s.log.Warn("could not terminate display", "err", terr)
		}
		return info, gpu.NewError(gpu.InitializationError, info.API, "initialize", 0,
			fmt.Sprintf("version %d.%d is older than the required %d.%d", info.Major, info.Minor, s.minMajor, s.minMinor))
	}

	s.display = display
	s.state = stateAcquired
	s.log.Debug("display initialized", "api", info.API, "version", fmt.Sprintf("%d.%d", info.Major, info.Minor), "vendor", info.Vendor)
	return info, nil
}

func (s *Session) SelectConfiguration(caps gpu.Caps) error {
	if err := s.expect("SelectConfiguration", stateAcquired); err != nil {
		return err
	}

	cfg, err := s.display.ChooseConfig(caps)
	if err != nil {
		return withKind(gpu.ConfigurationError, s.display.Info().API, "chooseConfig", err)
	}

	s.config = cfg
	s.state = stateConfigured
	s.log.Debug("configuration selected", "requested", caps, "matched", cfg.Caps())
	return nil
}

func (s *Session) CreateSurface(width int, height int) error {
	if err := s.expect("CreateSurface", stateConfigured); err != nil {
		return err
	}

	surface, err := s.display.CreateSurface(s.config, width, height)
	if err != nil {
		return withKind(gpu.SurfaceCreationError, s.display.Info().API, "createPbufferSurface", err)
	}

	s.surface = surface
	s.width, s.height = surface.Size()
	s.state = stateSurfaceCreated
	return nil
}

func (s *Session) CreateContext() error {
	if err := s.expect("CreateContext", stateSurfaceCreated); err != nil {
		return err
	}

	ctx, err := s.display.CreateContext(s.config)
	if err != nil {
		return withKind(gpu.ContextCreationError, s.display.Info().API, "createContext", err)
	}

	s.context = ctx
	s.state = stateContextCreated
	return nil
}

// Activate makes the context current on the surface for both drawing and
// reading.
func (s *Session) Activate() error {
	if err := s.expect("Activate", stateContextCreated); err != nil {
		return err
	}

	r, err := s.display.MakeCurrent(s.surface, s.context)
	if err != nil {
		return withKind(gpu.ActivationError, s.display.Info().API, "makeCurrent", err)
	}

	s.renderer = r
	s.state = stateActive
	return nil
}

// Render submits one draw of scene. It does not wait for the GPU.
func (s *Session) Render(scene *gpu.Scene) error {
	if err := s.expect("Render", stateActive); err != nil {
		return err
	}

	s.pending = true
	if err := s.renderer.Render(scene); err != nil {
		return withKind(gpu.RenderError, s.display.Info().API, "render", err)
	}
	return nil
}

// ReadPixels waits for outstanding renders and copies the whole surface
// into a new RGB frame, first buffer row first.
func (s *Session) ReadPixels() (*encdec.Frame, error) {
	if err := s.expect("ReadPixels", stateActive); err != nil {
		return nil, err
	}

	if s.pending {
		if err := s.renderer.Finish(); err != nil {
			return nil, withKind(gpu.ReadbackError, s.display.Info().API, "waitGL", err)
		}
		s.pending = false
	}

	frame := s.alloc.NewFrame(&encdec.FrameInfo{
		FrameCfg:  encdec.FrameCfg{Width: s.width, Height: s.height},
		FrameType: encdec.RGBFrames,
	})
	if err := s.renderer.ReadPixels(s.width, s.height, frame.Data); err != nil {
		return nil, withKind(gpu.ReadbackError, s.display.Info().API, "readPixels", err)
	}
	return frame, nil
}

// Release destroys whatever the session has created and terminates the
// display. Only the first call does anything.
func (s *Session) Release() error {
	if s.state == stateReleased {
		return nil
	}
	defer func() { s.state = stateReleased }()

	if s.display == nil {
		return nil
	}

	var errs []error
	if s.renderer != nil {
		s.renderer.Release()
		s.renderer = nil
	}
	if s.context != nil {
		if err := s.display.DestroyContext(s.context); err != nil {
			errs = append(errs, withKind(gpu.ReleaseError, s.display.Info().API, "destroyContext", err))
		}
		s.context = nil
	}
	if s.surface != nil {
		if err := s.display.DestroySurface(s.surface); err != nil {
			errs = append(errs, withKind(gpu.ReleaseError, s.display.Info().API, "destroySurface", err))
		}
		s.surface = nil
	}
	if err := s.display.Terminate(); err != nil {
		errs = append(errs, withKind(gpu.ReleaseError, s.display.Info().API, "terminate", err))
	}
	s.display = nil
	s.config = nil

	return errors.Join(errs...)
}

// Package egldriver renders into EGL pixel-buffer surfaces, which need
// neither a window system nor a visible window.
package egldriver

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/eglrender/lib/egl"
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/rendering"
	"github.com/fosdem/eglrender/lib/utils"
)

const Name = "egl"

func init() {
	gpu.Register(Name, func() gpu.Driver {
		return &Driver{}
	})
}

type Driver struct{}

func (d *Driver) Name() string {
	return Name
}

// check reads the EGL error state after a call. A call that reported
// failure without setting an error code still fails.
func check(kind gpu.Kind, op string, ok bool) error {
	code := egl.GetError()
	if code != egl.Success {
		return gpu.NewError(kind, "EGL", op, code, egl.ErrorString(code))
	}
	if !ok {
		return gpu.NewError(kind, "EGL", op, code, "call failed")
	}
	return nil
}

func (d *Driver) Open() (gpu.Display, error) {
	dpy := egl.GetDisplay()
	if err := check(gpu.InitializationError, "eglGetDisplay", !dpy.IsNone()); err != nil {
		logRenderNodes()
		return nil, err
	}

	major, minor, ok := dpy.Initialize()
	if err := check(gpu.InitializationError, "eglInitialize", ok); err != nil {
		logRenderNodes()
		return nil, err
	}

	return &display{
		dpy: dpy,
		info: gpu.DisplayInfo{
			API:        "EGL",
			Vendor:     dpy.QueryString(egl.Vendor),
			Version:    dpy.QueryString(egl.Version),
			Major:      major,
			Minor:      minor,
			ClientAPIs: dpy.QueryString(egl.ClientAPIs),
		},
	}, nil
}

// logRenderNodes points at the usual reason a headless display cannot be
// initialized: no render node, or one the user may not open.
func logRenderNodes() {
	log := slog.Default().With("module", "egl")
	nodes, err := utils.LocateRenderNodes()
	if err != nil {
		log.Warn(fmt.Sprintf("could not list render nodes: %s", err))
		return
	}
	if len(nodes) == 0 {
		log.Warn("no DRM render nodes found")
	}
	for _, node := range nodes {
		if node.Accessible {
			log.Debug(fmt.Sprintf("render node %s (%s) is accessible", node.Path, node.Driver))
		} else {
			log.Warn(fmt.Sprintf("render node %s (%s) is not accessible, check membership of the render group", node.Path, node.Driver))
		}
	}
}

type display struct {
	dpy  egl.Display
	info gpu.DisplayInfo
}

type eglConfig struct {
	cfg  egl.Config
	caps gpu.Caps
}

func (c *eglConfig) Caps() gpu.Caps {
	return c.caps
}

type eglSurface struct {
	s      egl.Surface
	width  int
	height int
}

func (s *eglSurface) Size() (int, int) {
	return s.width, s.height
}

type eglContext struct {
	c   egl.Context
	cfg *eglConfig
}

func (c *eglContext) Config() gpu.Config {
	return c.cfg
}

func (d *display) Info() gpu.DisplayInfo {
	return d.info
}

func configAttribs(caps gpu.Caps) ([]int, error) {
	if caps.Surface != gpu.PbufferSurface {
		return nil, fmt.Errorf("unsupported surface type %s", caps.Surface)
	}
	if caps.Renderable != gpu.OpenGL {
		return nil, fmt.Errorf("unsupported renderable type %s", caps.Renderable)
	}
	return []int{
		egl.SurfaceType, egl.PbufferBit,
		egl.BlueSize, caps.BlueSize,
		egl.GreenSize, caps.GreenSize,
		egl.RedSize, caps.RedSize,
		egl.DepthSize, caps.DepthSize,
		egl.RenderableType, egl.OpenGLBit,
	}, nil
}

func (d *display) ChooseConfig(caps gpu.Caps) (gpu.Config, error) {
	attribs, err := configAttribs(caps)
	if err != nil {
		return nil, gpu.WrapError(gpu.ConfigurationError, "EGL", "eglChooseConfig", err)
	}

	cfg, found, ok := d.dpy.ChooseConfig(attribs)
	if err := check(gpu.ConfigurationError, "eglChooseConfig", ok); err != nil {
		return nil, err
	}
	if !found {
		return nil, gpu.NewError(gpu.ConfigurationError, "EGL", "eglChooseConfig", egl.Success,
			fmt.Sprintf("no configuration matches %s", caps))
	}

	matched := caps
	for attrib, value := range map[int]*int{
		egl.RedSize:   &matched.RedSize,
		egl.GreenSize: &matched.GreenSize,
		egl.BlueSize:  &matched.BlueSize,
		egl.DepthSize: &matched.DepthSize,
	} {
		if v, ok := d.dpy.GetConfigAttrib(cfg, attrib); ok {
			*value = v
		}
	}
	slog.Debug(fmt.Sprintf("chose configuration %s", matched), "module", "egl")

	return &eglConfig{cfg: cfg, caps: matched}, nil
}

func (d *display) CreateSurface(cfg gpu.Config, width int, height int) (gpu.Surface, error) {
	c := cfg.(*eglConfig)
	s := d.dpy.CreatePbufferSurface(c.cfg, []int{
		egl.Width, width,
		egl.Height, height,
	})
	if err := check(gpu.SurfaceCreationError, "eglCreatePbufferSurface", !s.IsNone()); err != nil {
		return nil, err
	}
	return &eglSurface{s: s, width: width, height: height}, nil
}

func (d *display) CreateContext(cfg gpu.Config) (gpu.Context, error) {
	c := cfg.(*eglConfig)

	ok := egl.BindAPI(egl.OpenGLAPI)
	if err := check(gpu.ContextCreationError, "eglBindAPI", ok); err != nil {
		return nil, err
	}

	ctx := d.dpy.CreateContext(c.cfg, egl.NoContext)
	if err := check(gpu.ContextCreationError, "eglCreateContext", !ctx.IsNone()); err != nil {
		return nil, err
	}
	return &eglContext{c: ctx, cfg: c}, nil
}

func (d *display) MakeCurrent(s gpu.Surface, ctx gpu.Context) (gpu.Renderer, error) {
	surf := s.(*eglSurface)
	c := ctx.(*eglContext)

	ok := d.dpy.MakeCurrent(surf.s, surf.s, c.c)
	if err := check(gpu.ActivationError, "eglMakeCurrent", ok); err != nil {
		return nil, err
	}

	if _, err := rendering.Init(egl.GetProcAddress); err != nil {
		return nil, gpu.WrapError(gpu.ActivationError, "GL", "gl.Init", err)
	}

	return &renderer{GLRenderer: rendering.NewGLRenderer(surf.width, surf.height, 0)}, nil
}

func (d *display) DestroySurface(s gpu.Surface) error {
	ok := d.dpy.DestroySurface(s.(*eglSurface).s)
	return check(gpu.ReleaseError, "eglDestroySurface", ok)
}

func (d *display) DestroyContext(ctx gpu.Context) error {
	ok := d.dpy.MakeCurrent(egl.NoSurface, egl.NoSurface, egl.NoContext)
	if err := check(gpu.ReleaseError, "eglMakeCurrent", ok); err != nil {
		return err
	}
	ok = d.dpy.DestroyContext(ctx.(*eglContext).c)
	return check(gpu.ReleaseError, "eglDestroyContext", ok)
}

func (d *display) Terminate() error {
	ok := d.dpy.Terminate()
	return check(gpu.ReleaseError, "eglTerminate", ok)
}

// renderer waits through EGL, so the wait also covers work the driver
// queued outside the GL command stream.
type renderer struct {
	*rendering.GLRenderer
}

func (r *renderer) Finish() error {
	ok := egl.WaitGL()
	return check(gpu.ReadbackError, "eglWaitGL", ok)
}

// Package glfwdriver renders through a hidden GLFW window. The window's
// context draws into a framebuffer object sized like the requested
// surface, so the result does not depend on the window system showing
// anything.
package glfwdriver

import (
	"errors"
	"fmt"

	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/rendering"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const Name = "glfw"

func init() {
	gpu.Register(Name, func() gpu.Driver {
		return &Driver{Title: "eglrender"}
	})
}

type Driver struct {
	Title string
}

func (d *Driver) Name() string {
	return Name
}

func wrap(kind gpu.Kind, op string, err error) error {
	var glfwErr *glfw.Error
	if errors.As(err, &glfwErr) {
		return gpu.NewError(kind, "GLFW", op, int(glfwErr.Code), glfwErr.Desc)
	}
	return gpu.WrapError(kind, "GLFW", op, err)
}

func (d *Driver) Open() (gpu.Display, error) {
	if err := glfw.Init(); err != nil {
		return nil, wrap(gpu.InitializationError, "glfwInit", err)
	}

	major, minor, _ := glfw.GetVersion()
	return &display{
		title: d.Title,
		info: gpu.DisplayInfo{
			API:        "GLFW",
			Vendor:     "GLFW",
			Version:    glfw.GetVersionString(),
			Major:      major,
			Minor:      minor,
			ClientAPIs: "OpenGL",
		},
	}, nil
}

type display struct {
	title string
	info  gpu.DisplayInfo
	last  *windowSurface
}

type glfwConfig struct {
	caps gpu.Caps
}

func (c *glfwConfig) Caps() gpu.Caps {
	return c.caps
}

// windowSurface owns the hidden window and with it the GL context.
type windowSurface struct {
	window *glfw.Window
	cfg    *glfwConfig
	width  int
	height int
}

func (s *windowSurface) Size() (int, int) {
	return s.width, s.height
}

type windowContext struct {
	surface *windowSurface
}

func (c *windowContext) Config() gpu.Config {
	return c.surface.cfg
}

func (d *display) Info() gpu.DisplayInfo {
	return d.info
}

func (d *display) ChooseConfig(caps gpu.Caps) (gpu.Config, error) {
	if caps.Surface != gpu.PbufferSurface {
		return nil, gpu.NewError(gpu.ConfigurationError, "GLFW", "glfwWindowHint", 0, fmt.Sprintf("unsupported surface type %s", caps.Surface))
	}
	if caps.Renderable != gpu.OpenGL {
		return nil, gpu.NewError(gpu.ConfigurationError, "GLFW", "glfwWindowHint", 0, fmt.Sprintf("unsupported renderable type %s", caps.Renderable))
	}
	return &glfwConfig{caps: caps}, nil
}

func (d *display) CreateSurface(cfg gpu.Config, width int, height int) (gpu.Surface, error) {
	c := cfg.(*glfwConfig)

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.RedBits, c.caps.RedSize)
	glfw.WindowHint(glfw.GreenBits, c.caps.GreenSize)
	glfw.WindowHint(glfw.BlueBits, c.caps.BlueSize)
	glfw.WindowHint(glfw.DepthBits, c.caps.DepthSize)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, d.title, nil, nil)
	if err != nil {
		return nil, wrap(gpu.SurfaceCreationError, "glfwCreateWindow", err)
	}

	s := &windowSurface{window: window, cfg: c, width: width, height: height}
	d.last = s
	return s, nil
}

// CreateContext hands out the context GLFW created together with the most
// recent window.
func (d *display) CreateContext(cfg gpu.Config) (gpu.Context, error) {
	if d.last == nil || d.last.cfg != cfg {
		return nil, gpu.NewError(gpu.ContextCreationError, "GLFW", "glfwCreateWindow", 0, "no window was created for this configuration")
	}
	return &windowContext{surface: d.last}, nil
}

func (d *display) MakeCurrent(s gpu.Surface, ctx gpu.Context) (gpu.Renderer, error) {
	surf := s.(*windowSurface)
	c := ctx.(*windowContext)
	if c.surface != surf {
		return nil, gpu.NewError(gpu.ActivationError, "GLFW", "glfwMakeContextCurrent", 0, "context belongs to another window")
	}

	surf.window.MakeContextCurrent()

	if _, err := rendering.Init(glfw.GetProcAddress); err != nil {
		return nil, gpu.WrapError(gpu.ActivationError, "GL", "gl.Init", err)
	}

	fb, err := rendering.NewFramebuffer(surf.width, surf.height, surf.cfg.caps.DepthSize)
	if err != nil {
		return nil, gpu.WrapError(gpu.ActivationError, "GL", "glCheckFramebufferStatus", err)
	}

	return &renderer{GLRenderer: rendering.NewGLRenderer(surf.width, surf.height, fb.ID), fb: fb}, nil
}

func (d *display) DestroySurface(s gpu.Surface) error {
	surf := s.(*windowSurface)
	surf.window.Destroy()
	if d.last == surf {
		d.last = nil
	}
	return nil
}

func (d *display) DestroyContext(ctx gpu.Context) error {
	glfw.DetachCurrentContext()
	return nil
}

func (d *display) Terminate() error {
	glfw.Terminate()
	return nil
}

type renderer struct {
	*rendering.GLRenderer
	fb *rendering.Framebuffer
}

func (r *renderer) Release() {
	r.GLRenderer.Release()
	r.fb.Delete()
}

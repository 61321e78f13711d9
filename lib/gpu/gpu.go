// Package gpu describes the pieces an offscreen render backend has to
// provide: a display connection, a matched framebuffer configuration, a
// pixel-buffer surface, a context and a renderer bound to that context.
package gpu

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type SurfaceType int

const (
	PbufferSurface SurfaceType = iota
)

func (s SurfaceType) String() string {
	switch s {
	case PbufferSurface:
		return "pbuffer"
	default:
		return fmt.Sprintf("SurfaceType(%d)", int(s))
	}
}

type RenderableType int

const (
	OpenGL RenderableType = iota
)

func (r RenderableType) String() string {
	switch r {
	case OpenGL:
		return "opengl"
	default:
		return fmt.Sprintf("RenderableType(%d)", int(r))
	}
}

// Caps are the capabilities a framebuffer configuration must at least
// provide.
type Caps struct {
	RedSize    int
	GreenSize  int
	BlueSize   int
	DepthSize  int
	Surface    SurfaceType
	Renderable RenderableType
}

func DefaultCaps() Caps {
	return Caps{
		RedSize:    8,
		GreenSize:  8,
		BlueSize:   8,
		DepthSize:  8,
		Surface:    PbufferSurface,
		Renderable: OpenGL,
	}
}

func (c Caps) String() string {
	return fmt.Sprintf("R%dG%dB%d D%d %s/%s", c.RedSize, c.GreenSize, c.BlueSize, c.DepthSize, c.Surface, c.Renderable)
}

type DisplayInfo struct {
	// API names the device interface, e.g. "EGL"
	API     string
	Vendor  string
	Version string

	// Major and Minor are the negotiated interface version
	Major int
	Minor int

	ClientAPIs string
}

// AtLeast reports whether the negotiated version is major.minor or newer.
func (d DisplayInfo) AtLeast(major, minor int) bool {
	if d.Major != major {
		return d.Major > major
	}
	return d.Minor >= minor
}

// Scene is everything a single render call consumes.
type Scene struct {
	Triangle [3]mgl32.Vec3

	VertexShader   string
	FragmentShader string

	ClearColour color.RGBA
	FillColour  color.RGBA

	// Retain lets a renderer keep the buffers and program it built for
	// this scene and reuse them on the next call with the same scene.
	Retain bool
}

// Driver opens connections to one kind of graphics subsystem.
type Driver interface {
	Name() string
	Open() (Display, error)
}

// Display is an initialized connection to the graphics subsystem. All
// handles it returns become invalid after Terminate.
type Display interface {
	Info() DisplayInfo
	ChooseConfig(caps Caps) (Config, error)
	CreateSurface(cfg Config, width, height int) (Surface, error)
	CreateContext(cfg Config) (Context, error)
	MakeCurrent(surface Surface, ctx Context) (Renderer, error)
	DestroySurface(surface Surface) error
	DestroyContext(ctx Context) error
	Terminate() error
}

type Config interface {
	Caps() Caps
}

type Surface interface {
	Size() (width int, height int)
}

type Context interface {
	Config() Config
}

// Renderer draws into the surface its context is current on.
type Renderer interface {
	// Render clears the target, draws the scene once and flushes.
	Render(scene *Scene) error
	// Finish blocks until all submitted rendering has completed.
	Finish() error
	// ReadPixels copies width*height*3 bytes of RGB8 pixels, starting at
	// the first buffer row, into dst.
	ReadPixels(width, height int, dst []byte) error
	Release()
}

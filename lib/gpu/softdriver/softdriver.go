// Package softdriver is a CPU implementation of the offscreen render
// sequence. It follows the GL rasterization conventions the other drivers
// get from the hardware: buffer row 0 is the bottom of the viewport and a
// pixel belongs to the triangle when its centre does.
package softdriver

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

const Name = "software"

func init() {
	gpu.Register(Name, func() gpu.Driver {
		return New(DefaultOptions())
	})
}

type Options struct {
	Vendor  string
	Version string
	Major   int
	Minor   int

	// MaxChannelSize and MaxDepthSize bound the configurations the driver
	// can match.
	MaxChannelSize int
	MaxDepthSize   int
	MaxSurfaceSize int
}

func DefaultOptions() Options {
	return Options{
		Vendor:         "eglrender",
		Version:        "1.5 software",
		Major:          1,
		Minor:          5,
		MaxChannelSize: 8,
		MaxDepthSize:   24,
		MaxSurfaceSize: 16384,
	}
}

type Driver struct {
	opts Options
}

func New(opts Options) *Driver {
	return &Driver{opts: opts}
}

func (d *Driver) Name() string {
	return Name
}

func (d *Driver) Open() (gpu.Display, error) {
	return &display{
		opts: d.opts,
		info: gpu.DisplayInfo{
			API:        "Software",
			Vendor:     d.opts.Vendor,
			Version:    d.opts.Version,
			Major:      d.opts.Major,
			Minor:      d.opts.Minor,
			ClientAPIs: "OpenGL",
		},
	}, nil
}

type display struct {
	opts       Options
	info       gpu.DisplayInfo
	terminated bool
}

type softConfig struct {
	caps gpu.Caps
}

func (c *softConfig) Caps() gpu.Caps {
	return c.caps
}

type softSurface struct {
	width  int
	height int
	// pix holds RGB8 pixels, row 0 at the bottom
	pix []byte
}

func (s *softSurface) Size() (int, int) {
	return s.width, s.height
}

type softContext struct {
	cfg *softConfig
}

func (c *softContext) Config() gpu.Config {
	return c.cfg
}

func (d *display) Info() gpu.DisplayInfo {
	return d.info
}

func (d *display) fail(kind gpu.Kind, op string, desc string) error {
	return gpu.NewError(kind, "Software", op, 0, desc)
}

func (d *display) ChooseConfig(caps gpu.Caps) (gpu.Config, error) {
	if d.terminated {
		return nil, d.fail(gpu.ConfigurationError, "chooseConfig", "display terminated")
	}
	if caps.Surface != gpu.PbufferSurface || caps.Renderable != gpu.OpenGL {
		return nil, d.fail(gpu.ConfigurationError, "chooseConfig", fmt.Sprintf("no configuration matches %s", caps))
	}
	for _, size := range []int{caps.RedSize, caps.GreenSize, caps.BlueSize} {
		if size > d.opts.MaxChannelSize {
			return nil, d.fail(gpu.ConfigurationError, "chooseConfig", fmt.Sprintf("no configuration matches %s", caps))
		}
	}
	if caps.DepthSize > d.opts.MaxDepthSize {
		return nil, d.fail(gpu.ConfigurationError, "chooseConfig", fmt.Sprintf("no configuration matches %s", caps))
	}

	matched := caps
	matched.RedSize = d.opts.MaxChannelSize
	matched.GreenSize = d.opts.MaxChannelSize
	matched.BlueSize = d.opts.MaxChannelSize
	matched.DepthSize = d.opts.MaxDepthSize
	return &softConfig{caps: matched}, nil
}

func (d *display) CreateSurface(cfg gpu.Config, width int, height int) (gpu.Surface, error) {
	if width < 1 || height < 1 || width > d.opts.MaxSurfaceSize || height > d.opts.MaxSurfaceSize {
		return nil, d.fail(gpu.SurfaceCreationError, "createPbufferSurface", fmt.Sprintf("cannot allocate a %dx%d surface", width, height))
	}
	return &softSurface{width: width, height: height, pix: make([]byte, width*height*3)}, nil
}

func (d *display) CreateContext(cfg gpu.Config) (gpu.Context, error) {
	return &softContext{cfg: cfg.(*softConfig)}, nil
}

func (d *display) MakeCurrent(s gpu.Surface, ctx gpu.Context) (gpu.Renderer, error) {
	surf, ok := s.(*softSurface)
	if !ok || surf.pix == nil {
		return nil, d.fail(gpu.ActivationError, "makeCurrent", "invalid surface")
	}
	return &renderer{surface: surf}, nil
}

func (d *display) DestroySurface(s gpu.Surface) error {
	s.(*softSurface).pix = nil
	return nil
}

func (d *display) DestroyContext(ctx gpu.Context) error {
	return nil
}

func (d *display) Terminate() error {
	d.terminated = true
	return nil
}

type renderer struct {
	surface *softSurface

	retainedScene *gpu.Scene
	retainedMask  *image.Alpha
}

// checkShader stands in for a shader compiler: it only insists on an
// entry point.
func checkShader(stage string, source string) error {
	if !strings.Contains(source, "void main") {
		return gpu.NewError(gpu.ShaderCompileError, "Software", "compileShader("+stage+")", 0, "no main function")
	}
	return nil
}

func (r *renderer) Render(scene *gpu.Scene) error {
	if r.surface.pix == nil {
		return gpu.NewError(gpu.RenderError, "Software", "drawArrays", 0, "surface destroyed")
	}

	mask, err := r.maskFor(scene)
	if err != nil {
		return err
	}

	clear := []byte{scene.ClearColour.R, scene.ClearColour.G, scene.ClearColour.B}
	fill := []byte{scene.FillColour.R, scene.FillColour.G, scene.FillColour.B}
	for i, a := range mask.Pix {
		c := clear
		if a >= 0x80 {
			c = fill
		}
		copy(r.surface.pix[i*3:], c)
	}
	return nil
}

func (r *renderer) maskFor(scene *gpu.Scene) (*image.Alpha, error) {
	if r.retainedMask != nil && r.retainedScene == scene {
		return r.retainedMask, nil
	}
	r.retainedMask = nil
	r.retainedScene = nil

	if err := checkShader("vertex", scene.VertexShader); err != nil {
		return nil, err
	}
	if err := checkShader("fragment", scene.FragmentShader); err != nil {
		return nil, err
	}

	mask := rasterize(scene.Triangle, r.surface.width, r.surface.height)
	if scene.Retain {
		r.retainedMask = mask
		r.retainedScene = scene
	}
	return mask, nil
}

// rasterize computes triangle coverage in window coordinates. Mask row y
// is window row y, which keeps row 0 at the bottom like a GL readback.
func rasterize(tri [3]mgl32.Vec3, width int, height int) *image.Alpha {
	ident := mgl32.Ident4()
	var win [3]mgl32.Vec3
	for i, v := range tri {
		win[i] = mgl32.Project(v, ident, ident, 0, 0, width, height)
	}

	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	z.MoveTo(win[0].X(), win[0].Y())
	z.LineTo(win[1].X(), win[1].Y())
	z.LineTo(win[2].X(), win[2].Y())
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func (r *renderer) Finish() error {
	return nil
}

func (r *renderer) ReadPixels(width int, height int, dst []byte) error {
	if r.surface.pix == nil {
		return gpu.NewError(gpu.ReadbackError, "Software", "readPixels", 0, "surface destroyed")
	}
	if width > r.surface.width || height > r.surface.height {
		return gpu.NewError(gpu.ReadbackError, "Software", "readPixels", 0,
			fmt.Sprintf("%dx%d exceeds the %dx%d surface", width, height, r.surface.width, r.surface.height))
	}
	if len(dst) < width*height*3 {
		return gpu.NewError(gpu.ReadbackError, "Software", "readPixels", 0,
			fmt.Sprintf("destination holds %d bytes, need %d", len(dst), width*height*3))
	}
	for y := 0; y < height; y++ {
		src := r.surface.pix[y*r.surface.width*3:]
		copy(dst[y*width*3:(y+1)*width*3], src[:width*3])
	}
	return nil
}

func (r *renderer) Release() {
	r.retainedMask = nil
	r.retainedScene = nil
}

package egldriver

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fosdem/eglrender/lib/config"
	"github.com/fosdem/eglrender/lib/encdec"
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/gpu/softdriver"
	"github.com/fosdem/eglrender/lib/offscreen"
	"github.com/fosdem/eglrender/lib/pnm"
)

var (
	grey = color.RGBA{R: 77, G: 77, B: 77, A: 255}
	teal = color.RGBA{R: 0, G: 179, B: 204, A: 255}
)

// requireDisplay pins the test to its thread and skips when no EGL display
// can be initialized, e.g. on machines without Mesa or a render node.
func requireDisplay(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	display, err := (&Driver{}).Open()
	if errors.Is(err, gpu.InitializationError) {
		t.Skipf("no EGL display: %v", err)
	}
	if err != nil {
		t.Fatal(err)
	}
	if err := display.Terminate(); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output = config.CfgPath(filepath.Join(t.TempDir(), "egl.pnm"))
	return cfg
}

func render(t *testing.T, drv gpu.Driver, cfg *config.Config) (*encdec.Frame, string) {
	t.Helper()
	var stdout bytes.Buffer
	if err := offscreen.Run(drv, cfg, &stdout); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(string(cfg.Output))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	frame, err := pnm.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return frame, stdout.String()
}

func TestRenderTwoColours(t *testing.T) {
	requireDisplay(t)
	frame, stdout := render(t, &Driver{}, testConfig(t))

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "EGL Vendor: ") || !strings.HasPrefix(lines[1], "EGL Version: ") {
		t.Errorf("unexpected stdout %q", stdout)
	}

	counts := map[color.RGBA]int{}
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			counts[frame.At(x, y)]++
		}
	}
	if len(counts) != 2 || counts[grey] == 0 || counts[teal] == 0 {
		t.Errorf("expected only grey and teal pixels, got %v", counts)
	}
}

func TestRenderIdempotent(t *testing.T) {
	requireDisplay(t)

	once := testConfig(t)
	once.Iterations = 1
	reused := testConfig(t)
	reused.ReuseResources = true

	a, _ := render(t, &Driver{}, once)
	b, _ := render(t, &Driver{}, testConfig(t))
	c, _ := render(t, &Driver{}, reused)
	if !bytes.Equal(a.Data, b.Data) {
		t.Errorf("1 and 10 render calls differ")
	}
	if !bytes.Equal(b.Data, c.Data) {
		t.Errorf("reusing resources changed the output")
	}
}

func TestRenderMatchesSoftware(t *testing.T) {
	requireDisplay(t)

	hw, _ := render(t, &Driver{}, testConfig(t))
	sw, _ := render(t, softdriver.New(softdriver.DefaultOptions()), testConfig(t))

	diff := 0
	for i := range hw.Data {
		if hw.Data[i] != sw.Data[i] {
			diff++
		}
	}
	if diff != 0 {
		t.Errorf("%d bytes differ from the software rasterizer", diff)
	}
}

// An odd width makes rows that are not a multiple of four bytes long, so
// the readback depends on the pack alignment.
func TestReadPixelsOddWidth(t *testing.T) {
	requireDisplay(t)

	cfg := testConfig(t)
	cfg.Width, cfg.Height = 33, 17
	frame, _ := render(t, &Driver{}, cfg)

	filled := 0
	for y := 0; y < frame.Height; y++ {
		if frame.At(0, y) != grey || frame.At(32, y) != grey {
			t.Fatalf("row %d does not start and end with the clear colour", y)
		}
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y)
			if c != grey && c != teal {
				t.Fatalf("pixel %d,%d is %v", x, y, c)
			}
			if c != frame.At(32-x, y) {
				t.Fatalf("row %d not symmetric at column %d", y, x)
			}
			if c == teal {
				filled++
			}
		}
	}
	if filled == 0 {
		t.Errorf("no triangle pixels read back")
	}
}

func session(t *testing.T) (*offscreen.Session, *gpu.Scene) {
	t.Helper()
	scene, err := offscreen.BuildScene(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	s := offscreen.NewSession(&Driver{}, 1, 4)
	t.Cleanup(func() { s.Release() })
	steps := []func() error{
		func() error { _, err := s.AcquireDevice(); return err },
		func() error { return s.SelectConfiguration(gpu.DefaultCaps()) },
		func() error { return s.CreateSurface(16, 16) },
		s.CreateContext,
		s.Activate,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	return s, scene
}

func TestShaderCompileError(t *testing.T) {
	requireDisplay(t)
	s, scene := session(t)

	broken := *scene
	broken.FragmentShader = strings.Replace(scene.FragmentShader, ");", ")", 1)
	err := s.Render(&broken)
	if !errors.Is(err, gpu.ShaderCompileError) {
		t.Fatalf("got %v, want a shader compile error", err)
	}
	if !strings.Contains(err.Error(), "glCompileShader(fragment)") {
		t.Errorf("error does not name the stage: %v", err)
	}

	// the context stays usable after a failed compile
	if err := s.Render(scene); err != nil {
		t.Errorf("render after a failed compile: %v", err)
	}
}

func TestProgramLinkError(t *testing.T) {
	requireDisplay(t)
	s, scene := session(t)

	unlinked := *scene
	unlinked.FragmentShader = "#version 400\n" +
		"in vec3 tint;\n" +
		"out vec4 frag_colour;\n" +
		"void main() {\n" +
		"  frag_colour = vec4(tint, 1.0);\n" +
		"}\n"
	if err := s.Render(&unlinked); !errors.Is(err, gpu.ProgramLinkError) {
		t.Errorf("got %v, want a program link error", err)
	}
}

func TestChooseConfigNoMatch(t *testing.T) {
	requireDisplay(t)

	display, err := (&Driver{}).Open()
	if err != nil {
		t.Fatal(err)
	}
	defer display.Terminate()

	caps := gpu.DefaultCaps()
	caps.RedSize = 64
	if _, err := display.ChooseConfig(caps); !errors.Is(err, gpu.ConfigurationError) {
		t.Errorf("got %v, want a configuration error", err)
	}
}

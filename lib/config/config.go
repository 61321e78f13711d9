package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fosdem/eglrender/lib/encdec"
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/utils"
	"github.com/go-gl/mathgl/mgl32"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	Backend    string
	Output     CfgPath
	Iterations int
	Profile    string

	encdec.FrameCfg `yaml:",inline"`

	ReuseResources  bool    `yaml:"reuse_resources"`
	FlipRows        bool    `yaml:"flip_rows"`
	MinVersion      string  `yaml:"min_version"`
	MetricsTextfile CfgPath `yaml:"metrics_textfile"`
	ProfileDir      CfgPath `yaml:"profile_dir"`
	LogLevel        string  `yaml:"log_level"`

	Caps  CapsCfg
	Scene SceneCfg
}

type CapsCfg struct {
	RedSize    int `yaml:"red_size"`
	GreenSize  int `yaml:"green_size"`
	BlueSize   int `yaml:"blue_size"`
	DepthSize  int `yaml:"depth_size"`
	Surface    string
	Renderable string
}

type SceneCfg struct {
	ClearColour string `yaml:"clear_colour"`
	FillColour  string `yaml:"fill_colour"`
	Triangle    [][]float32
}

var profileModes = []string{"", "cpu", "mem"}

// Default reproduces the fixed behaviour of the original tool: a 512x512
// pbuffer, ten renders of one triangle, written to egl.pnm.
func Default() *Config {
	return &Config{
		Backend:    "egl",
		Output:     "egl.pnm",
		FrameCfg:   encdec.FrameCfg{Width: 512, Height: 512},
		Iterations: 10,
		MinVersion: "1.4",
		Caps: CapsCfg{
			RedSize:    8,
			GreenSize:  8,
			BlueSize:   8,
			DepthSize:  8,
			Surface:    "pbuffer",
			Renderable: "opengl",
		},
		Scene: SceneCfg{
			ClearColour: "#4d4d4dff",
			FillColour:  "#00b3ccff",
			Triangle: [][]float32{
				{0.0, 0.5, 0.0},
				{0.5, -0.5, 0.0},
				{-0.5, -0.5, 0.0},
			},
		},
		LogLevel: "warn",
	}
}

// Parse reads filename over the defaults and validates the result.
func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer f.Close()

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)
	defer func() { UnmarshalBase = "" }()

	m := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	cfg := Default()
	err = m.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", filename, err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("backend must be specified")
	}
	if c.Output == "" {
		return fmt.Errorf("output path must be specified")
	}
	if err := c.FrameCfg.Validate(); err != nil {
		return fmt.Errorf("invalid surface size: %w", err)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	if _, _, err := ParseVersion(c.MinVersion); err != nil {
		return fmt.Errorf("invalid min_version: %w", err)
	}
	if _, err := c.Caps.Caps(); err != nil {
		return fmt.Errorf("invalid caps: %w", err)
	}
	if err := c.Scene.Validate(); err != nil {
		return fmt.Errorf("invalid scene: %w", err)
	}
	if !slices.Contains(profileModes, c.Profile) {
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}
	if c.LogLevel == "" {
		return fmt.Errorf("please set log_level in the config")
	}
	return nil
}

func ParseVersion(s string) (int, int, error) {
	var major, minor int
	n, err := fmt.Sscanf(s, "%d.%d", &major, &minor)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("%q is not a major.minor version", s)
	}
	if major < 0 || minor < 0 {
		return 0, 0, fmt.Errorf("%q is not a major.minor version", s)
	}
	return major, minor, nil
}

func (c *CapsCfg) Caps() (gpu.Caps, error) {
	caps := gpu.Caps{
		RedSize:   c.RedSize,
		GreenSize: c.GreenSize,
		BlueSize:  c.BlueSize,
		DepthSize: c.DepthSize,
	}
	for _, size := range []int{c.RedSize, c.GreenSize, c.BlueSize, c.DepthSize} {
		if size < 0 {
			return caps, fmt.Errorf("channel sizes must be nonnegative")
		}
	}

	switch c.Surface {
	case "pbuffer":
		caps.Surface = gpu.PbufferSurface
	default:
		return caps, fmt.Errorf("unknown surface type: %s", c.Surface)
	}

	switch c.Renderable {
	case "opengl":
		caps.Renderable = gpu.OpenGL
	default:
		return caps, fmt.Errorf("unknown renderable type: %s", c.Renderable)
	}
	return caps, nil
}

func (s *SceneCfg) Validate() error {
	if !utils.ColourValidate(s.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", s.ClearColour)
	}
	if !utils.ColourValidate(s.FillColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", s.FillColour)
	}
	if len(s.Triangle) != 3 {
		return fmt.Errorf("triangle needs exactly 3 vertices, got %d", len(s.Triangle))
	}
	for i, v := range s.Triangle {
		if len(v) != 3 {
			return fmt.Errorf("vertex %d needs 3 coordinates, got %d", i, len(v))
		}
	}
	return nil
}

func (s *SceneCfg) Vertices() [3]mgl32.Vec3 {
	var tri [3]mgl32.Vec3
	for i := range tri {
		copy(tri[i][:], s.Triangle[i])
	}
	return tri
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Backend: %s\n", c.Backend))
	b.WriteString(fmt.Sprintf("Surface: %dx%d %s\n", c.Width, c.Height, c.Caps.Surface))
	b.WriteString(fmt.Sprintf("Caps: R%d G%d B%d D%d %s\n", c.Caps.RedSize, c.Caps.GreenSize, c.Caps.BlueSize, c.Caps.DepthSize, c.Caps.Renderable))
	b.WriteString(fmt.Sprintf("Minimum version: %s\n", c.MinVersion))
	b.WriteString(fmt.Sprintf("Iterations: %d (reuse resources: %t)\n", c.Iterations, c.ReuseResources))
	b.WriteString(fmt.Sprintf("Scene: clear %s, fill %s, triangle %v\n", c.Scene.ClearColour, c.Scene.FillColour, c.Scene.Triangle))
	b.WriteString(fmt.Sprintf("Output: %s (flip rows: %t)\n", c.Output, c.FlipRows))
	if c.MetricsTextfile != "" {
		b.WriteString(fmt.Sprintf("Metrics: %s\n", c.MetricsTextfile))
	}
	if c.Profile != "" {
		b.WriteString(fmt.Sprintf("Profile: %s\n", c.Profile))
	}

	return b.String()
}

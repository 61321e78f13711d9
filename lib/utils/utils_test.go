package utils

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestColourValidate(t *testing.T) {
	tests := map[string]bool{
		"#4d4d4dff":  true,
		"#00B3CCFF":  true,
		"#4d4d4d":    false,
		"4d4d4dff":   false,
		"#4d4d4dffx": false,
		"#zz4d4dff":  false,
		"":           false,
	}
	for in, want := range tests {
		if got := ColourValidate(in); got != want {
			t.Errorf("ColourValidate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestColourRoundTrip(t *testing.T) {
	c := ColourParse("#00b3ccff")
	want := color.RGBA{R: 0, G: 179, B: 204, A: 255}
	if c != want {
		t.Fatalf("got %v, want %v", c, want)
	}
	if s := ColourFormat(c); s != "#00b3ccff" {
		t.Errorf("got %q", s)
	}
}

func TestColourFloats(t *testing.T) {
	r, g, b, a := ColourFloats(color.RGBA{R: 77, G: 77, B: 77, A: 255})
	if r != g || g != b {
		t.Errorf("expected gray, got %f %f %f", r, g, b)
	}
	if a != 1 {
		t.Errorf("alpha %f", a)
	}
	if q := uint8(r*255 + 0.5); q != 77 {
		t.Errorf("quantized back to %d", q)
	}
}

func TestLocateRenderNodes(t *testing.T) {
	dev := t.TempDir()
	sys := t.TempDir()

	for _, name := range []string{"renderD129", "card0", "renderD128"} {
		if err := os.WriteFile(filepath.Join(dev, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(sys, "renderD128", "device"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("../../bus/pci/drivers/i915", filepath.Join(sys, "renderD128", "device", "driver")); err != nil {
		t.Fatal(err)
	}

	nodes, err := locateRenderNodes(dev, sys)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 render nodes, got %d", len(nodes))
	}
	if nodes[0].Path != filepath.Join(dev, "renderD128") {
		t.Errorf("unsorted: %s", nodes[0].Path)
	}
	if nodes[0].Driver != "i915" {
		t.Errorf("got driver %q", nodes[0].Driver)
	}
	if !nodes[0].Accessible {
		t.Errorf("expected %s to be accessible", nodes[0].Path)
	}
	if nodes[1].Driver != "" {
		t.Errorf("expected no driver for %s", nodes[1].Path)
	}
}

func TestLocateRenderNodesMissingDir(t *testing.T) {
	if _, err := locateRenderNodes(filepath.Join(t.TempDir(), "nope"), t.TempDir()); err == nil {
		t.Errorf("expected error")
	}
}

func TestStopwatch(t *testing.T) {
	var s Stopwatch
	if s.Total() != 0 {
		t.Errorf("zero stopwatch has total %s", s.Total())
	}
	s.Start()
	time.Sleep(2 * time.Millisecond)
	a := s.Lap()
	b := s.Lap()
	if a < 2*time.Millisecond {
		t.Errorf("first lap too short: %s", a)
	}
	if s.Total() != a+b {
		t.Errorf("total %s != %s + %s", s.Total(), a, b)
	}
}

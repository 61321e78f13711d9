package pnm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fosdem/eglrender/lib/encdec"
	"github.com/fosdem/eglrender/lib/gpu"
)

func newFrame(w, h int) *encdec.Frame {
	alloc := &encdec.DumbFrameAllocator{}
	f := alloc.NewFrame(&encdec.FrameInfo{
		FrameCfg:  encdec.FrameCfg{Width: w, Height: h},
		FrameType: encdec.RGBFrames,
	})
	for i := range f.Data {
		f.Data[i] = byte(i)
	}
	return f
}

func TestEncodeLayout(t *testing.T) {
	f := newFrame(512, 512)
	var b bytes.Buffer
	if err := Encode(&b, f); err != nil {
		t.Fatal(err)
	}

	header := "P6\n512 512\n255\n"
	if !strings.HasPrefix(b.String(), header) {
		t.Fatalf("bad header %q", b.String()[:20])
	}
	if b.Len() != len(header)+512*512*3 {
		t.Errorf("got %d bytes", b.Len())
	}
	if !bytes.Equal(b.Bytes()[len(header):], f.Data) {
		t.Errorf("raster differs from frame data")
	}
}

func TestEncodeRejectsShortFrame(t *testing.T) {
	f := newFrame(4, 4)
	f.Data = f.Data[:10]
	if err := Encode(&bytes.Buffer{}, f); err == nil {
		t.Errorf("expected error")
	}
}

func TestWriteFileAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pnm")
	if err := os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFrame(3, 2)
	if err := WriteFile(path, f); err != nil {
		t.Fatal(err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	got, err := Decode(in)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Errorf("got %dx%d", got.Width, got.Height)
	}
	if !bytes.Equal(got.Data, f.Data) {
		t.Errorf("raster mismatch")
	}
}

func TestWriteFileReportsOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.pnm")
	err := WriteFile(path, newFrame(1, 1))
	if !errors.Is(err, gpu.OutputError) {
		t.Fatalf("expected output error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"magic":    "P3\n1 1\n255\n\x00\x00\x00",
		"maxval":   "P6\n1 1\n65535\n\x00\x00\x00",
		"short":    "P6\n2 2\n255\n\x00\x00\x00",
		"trailing": "P6\n1 1\n255\n\x00\x00\x00\x00",
		"size":     "P6\n0 1\n255\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(in)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

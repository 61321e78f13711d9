// Package pnm reads and writes binary portable pixmaps (P6).
package pnm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fosdem/eglrender/lib/encdec"
	"github.com/fosdem/eglrender/lib/gpu"
)

func Header(width int, height int) string {
	return fmt.Sprintf("P6\n%d %d\n255\n", width, height)
}

// Encode writes the frame rows in buffer order, without compression.
func Encode(w io.Writer, f *encdec.Frame) error {
	if f.Type != encdec.RGBFrames {
		return fmt.Errorf("cannot encode frame type %d as P6", f.Type)
	}
	if len(f.Data) != f.Width*f.Height*3 {
		return fmt.Errorf("frame holds %d bytes, expected %d", len(f.Data), f.Width*f.Height*3)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header(f.Width, f.Height)); err != nil {
		return err
	}
	if _, err := bw.Write(f.Data); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile creates or truncates path and writes f to it.
func WriteFile(path string, f *encdec.Frame) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return gpu.WrapError(gpu.OutputError, "os", "create", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil && cerr != nil {
			err = gpu.WrapError(gpu.OutputError, "os", "close", cerr)
		}
	}()

	if err := Encode(out, f); err != nil {
		return gpu.WrapError(gpu.OutputError, "os", "write", err)
	}
	return nil
}

// Decode reads a P6 image with a maximum value of 255.
func Decode(r io.Reader) (*encdec.Frame, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxval int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxval); err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("unsupported magic %q", magic)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("unsupported maxval %d", maxval)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	// exactly one whitespace byte separates header and raster
	if _, err := br.ReadByte(); err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	alloc := &encdec.DumbFrameAllocator{}
	f := alloc.NewFrame(&encdec.FrameInfo{
		FrameCfg:  encdec.FrameCfg{Width: width, Height: height},
		FrameType: encdec.RGBFrames,
	})
	if _, err := io.ReadFull(br, f.Data); err != nil {
		return nil, fmt.Errorf("could not read raster: %w", err)
	}
	if _, err := br.ReadByte(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after raster")
	}
	return f, nil
}

package encdec

import (
	"fmt"
	"image/color"
)

type FrameType int

const (
	RGBFrames FrameType = iota
)

func (t FrameType) BytesPerPixel() int {
	switch t {
	case RGBFrames:
		return 3
	default:
		panic("unknown frame type")
	}
}

// Frame is a host-memory copy of rendered pixels, row-major from the
// first buffer row.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Type   FrameType
	ID     uint32
}

func (f *Frame) Stride() int {
	return f.Width * f.Type.BytesPerPixel()
}

func (f *Frame) Row(y int) []byte {
	stride := f.Stride()
	return f.Data[y*stride : (y+1)*stride]
}

// At returns the pixel at column x of buffer row y.
func (f *Frame) At(x int, y int) color.RGBA {
	i := y*f.Stride() + x*f.Type.BytesPerPixel()
	return color.RGBA{R: f.Data[i], G: f.Data[i+1], B: f.Data[i+2], A: 255}
}

// FlipRows reverses the row order in place, turning a bottom-up GL
// readback into a top-down image.
func (f *Frame) FlipRows() {
	tmp := make([]byte, f.Stride())
	for top, bottom := 0, f.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		copy(tmp, f.Row(top))
		copy(f.Row(top), f.Row(bottom))
		copy(f.Row(bottom), tmp)
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame %d (%dx%d, %d bytes)", f.ID, f.Width, f.Height, len(f.Data))
}

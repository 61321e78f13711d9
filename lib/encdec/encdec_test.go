package encdec

import (
	"image/color"
	"testing"
)

func TestAllocatorSizes(t *testing.T) {
	alloc := &DumbFrameAllocator{}
	info := &FrameInfo{FrameCfg: FrameCfg{Width: 512, Height: 512}, FrameType: RGBFrames}

	a := alloc.NewFrame(info)
	b := alloc.NewFrame(info)

	if len(a.Data) != 512*512*3 {
		t.Errorf("got %d bytes", len(a.Data))
	}
	if a.ID == b.ID {
		t.Errorf("frames share id %d", a.ID)
	}
	if a.Stride() != 512*3 {
		t.Errorf("stride %d", a.Stride())
	}
}

func TestFlipRows(t *testing.T) {
	alloc := &DumbFrameAllocator{}
	f := alloc.NewFrame(&FrameInfo{FrameCfg: FrameCfg{Width: 2, Height: 3}, FrameType: RGBFrames})
	for y := 0; y < f.Height; y++ {
		for i := range f.Row(y) {
			f.Row(y)[i] = byte(y)
		}
	}

	f.FlipRows()

	for y := 0; y < f.Height; y++ {
		want := color.RGBA{R: byte(2 - y), G: byte(2 - y), B: byte(2 - y), A: 255}
		if got := f.At(1, y); got != want {
			t.Errorf("row %d: got %v, want %v", y, got, want)
		}
	}
}

func TestFrameCfgValidate(t *testing.T) {
	tests := []struct {
		cfg     FrameCfg
		wantErr bool
	}{
		{FrameCfg{512, 512}, false},
		{FrameCfg{1, 1}, false},
		{FrameCfg{0, 512}, true},
		{FrameCfg{512, -1}, true},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v: got err %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}

package encdec

import (
	"fmt"
)

type FrameCfg struct {
	Width  int
	Height int
}

type FrameInfo struct {
	FrameCfg
	FrameType FrameType
}

func (i *FrameInfo) CalcBufSize() int {
	return i.Width * i.Height * i.FrameType.BytesPerPixel()
}

type FrameAllocator interface {
	NewFrame(info *FrameInfo) *Frame
}

type DumbFrameAllocator struct {
	LastID uint32
}

func (d *DumbFrameAllocator) NewFrame(info *FrameInfo) *Frame {
	f := &Frame{
		Data:   make([]byte, info.CalcBufSize()),
		Width:  info.Width,
		Height: info.Height,
		Type:   info.FrameType,
		ID:     d.LastID,
	}
	d.LastID += 1

	return f
}

func (f *FrameCfg) Validate() error {
	if f.Width < 1 {
		return fmt.Errorf("width must be at least 1")
	}
	if f.Height < 1 {
		return fmt.Errorf("height must be at least 1")
	}
	return nil
}
